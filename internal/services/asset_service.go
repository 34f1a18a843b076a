package services

import (
	"context"
	"encoding/json"
	"fmt"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/models/catalog"
	gormModels "urbanlight/columnforge/internal/models/gorm"
)

// AssetService is the caller side of the wizard contract: it merges a
// completed ConfigurationResult into the asset record as a column foreign
// key plus a serialized snapshot kept for audit and history.
type AssetService struct {
	assets *repositories.AssetRepository
}

func NewAssetService(assets *repositories.AssetRepository) *AssetService {
	return &AssetService{assets: assets}
}

// EnsureExists verifies that the asset exists and belongs to the tenant.
// The wizard completion endpoint runs this check before the session is
// irrevocably closed, so a mistyped asset id never costs the caller their
// assembled configuration.
func (s *AssetService) EnsureExists(ctx context.Context, tenantID, assetID string) error {
	asset, err := s.assets.GetByID(ctx, tenantID, assetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return fmt.Errorf("%w: %s for tenant %s", constants.ErrAssetNotFound, assetID, tenantID)
	}
	return nil
}

// ApplyConfiguration writes the configuration onto the asset. A repeat
// wizard run replaces the prior configuration wholesale.
func (s *AssetService) ApplyConfiguration(ctx context.Context, tenantID, assetID string, result catalog.ConfigurationResult) error {
	if err := s.EnsureExists(ctx, tenantID, assetID); err != nil {
		return err
	}

	snapshot, err := configurationSnapshot(result)
	if err != nil {
		return err
	}

	if err := s.assets.SaveConfiguration(ctx, tenantID, assetID, result.ColumnID, snapshot); err != nil {
		return err
	}

	logging.Info("Asset configuration saved",
		"tenant_id", tenantID,
		"asset_id", assetID,
		"column_id", result.ColumnID,
	)
	return nil
}

// GetConfiguration reads back the stored snapshot, or nil when the asset
// has never been configured.
func (s *AssetService) GetConfiguration(ctx context.Context, tenantID, assetID string) (gormModels.JSONB, error) {
	asset, err := s.assets.GetByID(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrAssetNotFound, assetID)
	}
	return asset.Configuration, nil
}

// configurationSnapshot serializes the parts of the result the audit trail
// keeps: the module selection and the power calculation.
func configurationSnapshot(result catalog.ConfigurationResult) (gormModels.JSONB, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}

	var snapshot gormModels.JSONB
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to build configuration snapshot: %w", err)
	}
	return snapshot, nil
}
