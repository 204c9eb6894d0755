package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linkstash/linkstash-server/internal/search"
	"github.com/linkstash/linkstash-server/internal/store"
)

// SyncSearchIndex reconciles the search index with the database at
// startup. When the document count diverges from the resource count the
// index is rebuilt from scratch; incremental updates during normal
// operation flow through the store's SearchIndexer hook.
func SyncSearchIndex(ctx context.Context, st store.Store, index *search.SearchIndex, logger *slog.Logger) error {
	total, err := st.CountResources(ctx)
	if err != nil {
		return fmt.Errorf("count resources: %w", err)
	}

	indexed, err := index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count indexed documents: %w", err)
	}

	if uint64(total) == indexed {
		return nil
	}

	logger.Info("search index out of sync, rebuilding",
		"resources", total,
		"indexed", indexed,
	)

	if err := index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	resources, err := st.ListAllResources(ctx)
	if err != nil {
		return fmt.Errorf("list resources for reindex: %w", err)
	}

	if err := index.IndexResources(resources); err != nil {
		return fmt.Errorf("reindex resources: %w", err)
	}

	logger.Info("search index rebuilt", "resources", len(resources))
	return nil
}
