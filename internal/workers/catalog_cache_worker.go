package workers

import (
	"context"
	"time"

	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/services"
)

// CatalogCacheWorker keeps the catalog caches warm so wizard sessions
// never pay the cold-load cost on their first column list.
type CatalogCacheWorker struct {
	catalog  *services.CatalogService
	interval time.Duration
}

func NewCatalogCacheWorker(catalog *services.CatalogService, interval time.Duration) *CatalogCacheWorker {
	return &CatalogCacheWorker{
		catalog:  catalog,
		interval: interval,
	}
}

func (w *CatalogCacheWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *CatalogCacheWorker) warm(ctx context.Context) {
	if err := w.catalog.Preload(ctx); err != nil {
		logging.Warn("Catalog cache warm failed", "error", err.Error())
	}
}
