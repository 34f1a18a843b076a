package repositories

import (
	"context"
	"fmt"

	gormModels "urbanlight/columnforge/internal/models/gorm"

	"gorm.io/gorm"
)

// CatalogColumnRepository handles catalog_columns table operations using GORM
type CatalogColumnRepository struct {
	db *gorm.DB
}

// NewCatalogColumnRepository creates a new GORM-based column repository
func NewCatalogColumnRepository(db *gorm.DB) *CatalogColumnRepository {
	return &CatalogColumnRepository{db: db}
}

// GetByID retrieves a column by its ID. Returns nil without error when the
// row does not exist.
func (r *CatalogColumnRepository) GetByID(ctx context.Context, columnID string) (*gormModels.CatalogColumn, error) {
	var column gormModels.CatalogColumn

	err := r.db.WithContext(ctx).
		Where("id = ?", columnID).
		First(&column).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch catalog column: %w", err)
	}

	return &column, nil
}

// GetAll retrieves all active catalog columns ordered by reference
func (r *CatalogColumnRepository) GetAll(ctx context.Context) ([]gormModels.CatalogColumn, error) {
	var columns []gormModels.CatalogColumn

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("reference ASC").
		Find(&columns).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog columns: %w", err)
	}

	return columns, nil
}
