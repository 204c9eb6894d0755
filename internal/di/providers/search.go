package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/linkstash/linkstash-server/internal/config"
	"github.com/linkstash/linkstash-server/internal/logger"
	"github.com/linkstash/linkstash-server/internal/search"
	"github.com/linkstash/linkstash-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index and wires it to the
// store so mutations are indexed as they happen.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Analyzer: cfg.Search.Analyzer,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "analyzer", cfg.Search.Analyzer)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// SyncSearchIndexIfNeeded reconciles the index with the store at startup.
// Should be called after all services are wired.
func SyncSearchIndexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx := context.Background()
	if err := service.SyncSearchIndex(ctx, storeHandle.Store, indexHandle.SearchIndex, log.Logger); err != nil {
		log.Error("Search index sync failed", "error", err)
	}
}
