package services

import (
	"context"
	"errors"
	"testing"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/models/catalog"
	gormModels "urbanlight/columnforge/internal/models/gorm"
)

func TestAssetServiceApplyConfiguration(t *testing.T) {
	db := setupCatalogDB(t)

	asset := gormModels.Asset{ID: "asset-1", TenantID: "tenant-1", Name: "Main Street 12"}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}

	svc := NewAssetService(repositories.NewAssetRepository(db))

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-1")
	selection.Set(catalog.CategoryLuminaire, "lum-1")

	result := catalog.ConfigurationResult{
		ColumnID:        "col-a",
		ColumnReference: "CITY-6M",
		Pack:            catalog.PackEssential,
		HeightMeters:    6,
		Modules:         selection,
		Power:           *validTestCalc(),
	}

	if err := svc.ApplyConfiguration(context.Background(), "tenant-1", "asset-1", result); err != nil {
		t.Fatalf("ApplyConfiguration: %v", err)
	}

	var stored gormModels.Asset
	if err := db.First(&stored, "id = ?", "asset-1").Error; err != nil {
		t.Fatalf("Failed to read asset back: %v", err)
	}
	if stored.CatalogColumnID == nil || *stored.CatalogColumnID != "col-a" {
		t.Errorf("CatalogColumnID = %v, want col-a", stored.CatalogColumnID)
	}

	snapshot, err := svc.GetConfiguration(context.Background(), "tenant-1", "asset-1")
	if err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if snapshot["column_id"] != "col-a" {
		t.Errorf("snapshot column_id = %v, want col-a", snapshot["column_id"])
	}
	power, ok := snapshot["power_calculation"].(map[string]interface{})
	if !ok {
		t.Fatalf("snapshot power_calculation has unexpected shape: %T", snapshot["power_calculation"])
	}
	if power["is_valid"] != true {
		t.Errorf("snapshot is_valid = %v, want true", power["is_valid"])
	}
	modules, ok := snapshot["modules"].(map[string]interface{})
	if !ok {
		t.Fatalf("snapshot modules has unexpected shape: %T", snapshot["modules"])
	}
	if modules["electrical_panel"] != "ep-1" {
		t.Errorf("snapshot modules.electrical_panel = %v, want ep-1", modules["electrical_panel"])
	}
}

func TestAssetServiceApplyConfigurationScopesByTenant(t *testing.T) {
	db := setupCatalogDB(t)

	asset := gormModels.Asset{ID: "asset-1", TenantID: "tenant-1", Name: "Main Street 12"}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}

	svc := NewAssetService(repositories.NewAssetRepository(db))

	result := catalog.ConfigurationResult{
		ColumnID: "col-a",
		Modules:  catalog.NewSelectionState(),
		Power:    *validTestCalc(),
	}

	if err := svc.ApplyConfiguration(context.Background(), "other-tenant", "asset-1", result); !errors.Is(err, constants.ErrAssetNotFound) {
		t.Errorf("ApplyConfiguration across tenants = %v, want ErrAssetNotFound", err)
	}

	if _, err := svc.GetConfiguration(context.Background(), "other-tenant", "asset-1"); !errors.Is(err, constants.ErrAssetNotFound) {
		t.Errorf("GetConfiguration across tenants = %v, want ErrAssetNotFound", err)
	}
}

func TestAssetServiceEnsureExists(t *testing.T) {
	db := setupCatalogDB(t)

	asset := gormModels.Asset{ID: "asset-1", TenantID: "tenant-1", Name: "Main Street 12"}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}

	svc := NewAssetService(repositories.NewAssetRepository(db))

	if err := svc.EnsureExists(context.Background(), "tenant-1", "asset-1"); err != nil {
		t.Errorf("EnsureExists for a seeded asset = %v, want nil", err)
	}
	if err := svc.EnsureExists(context.Background(), "tenant-1", "ghost"); !errors.Is(err, constants.ErrAssetNotFound) {
		t.Errorf("EnsureExists for an unknown asset = %v, want ErrAssetNotFound", err)
	}
	if err := svc.EnsureExists(context.Background(), "other-tenant", "asset-1"); !errors.Is(err, constants.ErrAssetNotFound) {
		t.Errorf("EnsureExists across tenants = %v, want ErrAssetNotFound", err)
	}
}
