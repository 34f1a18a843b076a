package repositories

import (
	"context"
	"fmt"

	gormModels "urbanlight/columnforge/internal/models/gorm"

	"gorm.io/gorm"
)

// AssetRepository handles the asset rows the configuration engine writes
// back to: the column foreign key plus the serialized configuration snapshot.
type AssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new GORM-based asset repository
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetByID retrieves an asset scoped to a tenant. Returns nil without error
// when the row does not exist.
func (r *AssetRepository) GetByID(ctx context.Context, tenantID, assetID string) (*gormModels.Asset, error) {
	var asset gormModels.Asset

	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", assetID, tenantID).
		First(&asset).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}

	return &asset, nil
}

// SaveConfiguration replaces the asset's configuration: column FK plus the
// serialized snapshot. A new wizard run always overwrites the prior one.
func (r *AssetRepository) SaveConfiguration(ctx context.Context, tenantID, assetID, columnID string, snapshot gormModels.JSONB) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Asset{}).
		Where("id = ? AND tenant_id = ?", assetID, tenantID).
		Updates(map[string]interface{}{
			"catalog_column_id":     columnID,
			"catalog_configuration": snapshot,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save asset configuration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
