package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/linkstash/linkstash-server/internal/domain"
)

// SearchIndex wraps a Bleve index with resource-specific operations.
// It implements store.SearchIndexer so the store can keep the index
// synchronized with the database.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type SearchIndex struct {
	index    bleve.Index
	path     string
	analyzer string
	logger   *slog.Logger
	mu       sync.RWMutex // Protects index operations during rebuild
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Analyzer string       // Text analyzer: "en", "standard", or "keyword"
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
// The analyzer choice is folded into the version string so changing it
// also forces a rebuild.
const mappingVersion = "1"

func versionString(analyzer string) string {
	if analyzer == "" {
		analyzer = "en"
	}
	return mappingVersion + ":" + analyzer
}

// NewSearchIndex creates or opens a search index.
// If an existing index is found, it opens it. Otherwise, creates a new one.
// If the existing index is corrupted or has an outdated mapping, it's removed
// and recreated; the caller is expected to reindex when NeedsReindex reports true.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "search.bleve")
	versionPath := filepath.Join(opts.DataPath, "search.version")
	wantVersion := versionString(opts.Analyzer)

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild with current mapping",
				"new_version", wantVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != wantVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", wantVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		indexMapping, err := buildIndexMapping(opts.Analyzer)
		if err != nil {
			return nil, err
		}
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(wantVersion), 0644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", wantVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:    index,
		path:     indexPath,
		analyzer: opts.Analyzer,
		logger:   logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexResource indexes a single resource. Implements store.SearchIndexer.
func (s *SearchIndex) IndexResource(_ context.Context, r *domain.Resource) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := ResourceToSearchDocument(r)
	// Convert to map to ensure field names match the mapping (lowercase).
	return s.index.Index(doc.ID, doc.ToMap())
}

// DeleteResource removes a resource from the index. Implements store.SearchIndexer.
func (s *SearchIndex) DeleteResource(_ context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// IndexResources indexes multiple resources in batches.
// This is significantly faster than calling IndexResource in a loop.
func (s *SearchIndex) IndexResources(resources []*domain.Resource) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(resources); i += batchSize {
		end := i + batchSize
		if end > len(resources) {
			end = len(resources)
		}
		chunk := resources[i:end]

		batch := s.index.NewBatch()
		for _, r := range chunk {
			doc := ResourceToSearchDocument(r)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DocumentCount returns the total number of indexed resources.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates a new one.
// Used for full reindex operations when the database and index diverge.
//
// This acquires an exclusive lock and blocks all other operations.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	indexMapping, err := buildIndexMapping(s.analyzer)
	if err != nil {
		return err
	}
	index, err := bleve.New(s.path, indexMapping)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)

	return nil
}
