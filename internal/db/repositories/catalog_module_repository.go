package repositories

import (
	"context"
	"fmt"

	gormModels "urbanlight/columnforge/internal/models/gorm"

	"gorm.io/gorm"
)

// CatalogModuleRepository handles catalog_modules table operations using GORM.
// Module-level compatibility with a column is pre-scoped by the catalog
// import pipeline into the catalog_column_modules join table; this repo only
// reads that scoping, it never re-derives it.
type CatalogModuleRepository struct {
	db *gorm.DB
}

// NewCatalogModuleRepository creates a new GORM-based module repository
func NewCatalogModuleRepository(db *gorm.DB) *CatalogModuleRepository {
	return &CatalogModuleRepository{db: db}
}

// GetByID retrieves a module by its ID. Returns nil without error when the
// row does not exist.
func (r *CatalogModuleRepository) GetByID(ctx context.Context, moduleID string) (*gormModels.CatalogModule, error) {
	var module gormModels.CatalogModule

	err := r.db.WithContext(ctx).
		Where("id = ?", moduleID).
		First(&module).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch catalog module: %w", err)
	}

	return &module, nil
}

// GetByIDs retrieves a batch of modules in one query
func (r *CatalogModuleRepository) GetByIDs(ctx context.Context, moduleIDs []string) ([]gormModels.CatalogModule, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}

	var modules []gormModels.CatalogModule
	err := r.db.WithContext(ctx).
		Where("id IN ?", moduleIDs).
		Find(&modules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog modules: %w", err)
	}

	return modules, nil
}

// GetCompatibleWithColumn retrieves the active modules scoped as compatible
// with the given column, ordered by reference
func (r *CatalogModuleRepository) GetCompatibleWithColumn(ctx context.Context, columnID string) ([]gormModels.CatalogModule, error) {
	var modules []gormModels.CatalogModule

	err := r.db.WithContext(ctx).
		Joins("JOIN catalog_column_modules ccm ON ccm.catalog_module_id = catalog_modules.id").
		Where("ccm.catalog_column_id = ? AND catalog_modules.is_active = ?", columnID, true).
		Order("catalog_modules.reference ASC").
		Find(&modules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch compatible modules: %w", err)
	}

	return modules, nil
}
