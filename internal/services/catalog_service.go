package services

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"urbanlight/columnforge/internal/common"
	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/metrics"
	"urbanlight/columnforge/internal/models/catalog"
)

// CatalogDirectory is what the configuration engine sees of the catalog:
// the base products and, per column, the accessory modules the backend has
// already scoped as compatible, grouped by category.
type CatalogDirectory interface {
	ListColumns(ctx context.Context) ([]catalog.Column, error)
	GetColumn(ctx context.Context, columnID string) (*catalog.Column, error)
	CompatibleModules(ctx context.Context, columnID string) (catalog.ModuleSet, error)
}

// CatalogService implements CatalogDirectory over the gorm repositories,
// with a read-through cache in front of both queries.
type CatalogService struct {
	columns *repositories.CatalogColumnRepository
	modules *repositories.CatalogModuleRepository
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry // optional
}

// Ensure CatalogService implements CatalogDirectory
var _ CatalogDirectory = (*CatalogService)(nil)

func NewCatalogService(
	columns *repositories.CatalogColumnRepository,
	modules *repositories.CatalogModuleRepository,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *CatalogService {
	return &CatalogService{
		columns: columns,
		modules: modules,
		cache:   cache,
		metrics: metricsReg,
	}
}

// ListColumns returns all active base products.
func (s *CatalogService) ListColumns(ctx context.Context) ([]catalog.Column, error) {
	key := string(constants.CachePrefixColumns)
	s.recordCacheLookup(key, string(constants.CachePrefixColumns))

	val, err := s.cache.GetOrSet(key, constants.CatalogCacheTTL, func() (any, error) {
		return s.loadColumns(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrCatalogUnavailable, err)
	}

	columns, ok := decodeCached[[]catalog.Column](val)
	if !ok {
		// cache returned something unusable, fall back to the repository
		return s.loadColumns(ctx)
	}
	return columns, nil
}

// GetColumn returns one column by id, or ErrUnknownColumn.
func (s *CatalogService) GetColumn(ctx context.Context, columnID string) (*catalog.Column, error) {
	columns, err := s.ListColumns(ctx)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if columns[i].ID == columnID {
			col := columns[i]
			return &col, nil
		}
	}
	return nil, constants.ErrUnknownColumn
}

// CompatibleModules returns the column's compatible modules grouped by
// category. Only category grouping happens here; module-level scoping is
// the import pipeline's job and is read as-is from the join table.
func (s *CatalogService) CompatibleModules(ctx context.Context, columnID string) (catalog.ModuleSet, error) {
	key := string(constants.CachePrefixColumnModules) + columnID
	s.recordCacheLookup(key, string(constants.CachePrefixColumnModules))

	val, err := s.cache.GetOrSet(key, constants.CatalogCacheTTL, func() (any, error) {
		return s.loadModuleSet(ctx, columnID)
	})
	if err != nil {
		return nil, err
	}

	set, ok := decodeCached[catalog.ModuleSet](val)
	if !ok {
		return s.loadModuleSet(ctx, columnID)
	}
	return set, nil
}

// Preload warms the cache: all columns, then every column's module set in
// parallel. Used by the catalog cache worker at startup and on its ticker.
func (s *CatalogService) Preload(ctx context.Context) error {
	columns, err := s.ListColumns(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, col := range columns {
		g.Go(func() error {
			_, err := s.CompatibleModules(gctx, col.ID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("catalog preload: %w", err)
	}

	logging.Debug("Catalog cache preloaded", "columns", len(columns))
	return nil
}

func (s *CatalogService) loadColumns(ctx context.Context) ([]catalog.Column, error) {
	rows, err := s.columns.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]catalog.Column, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, row.ToDomain())
	}
	return columns, nil
}

func (s *CatalogService) loadModuleSet(ctx context.Context, columnID string) (catalog.ModuleSet, error) {
	rows, err := s.modules.GetCompatibleWithColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}

	set := make(catalog.ModuleSet, catalog.NumCategories)
	for _, row := range rows {
		module, err := row.ToDomain()
		if err != nil {
			logging.Warn("Skipping catalog module with bad category", "module_id", row.ID, "error", err.Error())
			continue
		}
		set[module.Category] = append(set[module.Category], module)
	}
	return set, nil
}

// recordCacheLookup counts a hit or miss under the key's prefix.
func (s *CatalogService) recordCacheLookup(key, prefix string) {
	if s.metrics == nil {
		return
	}
	if _, found := s.cache.Get(key); found {
		s.metrics.CacheHitsTotal.WithLabelValues(prefix).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(prefix).Inc()
	}
}

// decodeCached recovers a typed value from the cache. The in-memory cache
// hands back the stored value; the Redis cache hands back json.RawMessage.
func decodeCached[T any](val interface{}) (T, bool) {
	var zero T

	if typed, ok := val.(T); ok {
		return typed, true
	}

	raw, ok := val.(json.RawMessage)
	if !ok {
		return zero, false
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return zero, false
	}
	return decoded, true
}
