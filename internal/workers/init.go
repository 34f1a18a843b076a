package workers

import (
	"context"
	"time"

	"urbanlight/columnforge/internal/services"
)

type WorkersContainer struct {
	CatalogWarmer *CatalogCacheWorker
}

func InitWorkers(catalog *services.CatalogService) *WorkersContainer {
	warmer := NewCatalogCacheWorker(catalog, 5*time.Minute)

	go warmer.Start(context.Background())

	return &WorkersContainer{
		CatalogWarmer: warmer,
	}
}
