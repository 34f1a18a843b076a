package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"urbanlight/columnforge/internal/common"
	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/models/catalog"
	gormModels "urbanlight/columnforge/internal/models/gorm"
)

func newCatalogServiceForTest(t *testing.T) (*CatalogService, *gorm.DB) {
	db := setupCatalogDB(t)
	svc := NewCatalogService(
		repositories.NewCatalogColumnRepository(db),
		repositories.NewCatalogModuleRepository(db),
		common.NewCacheService(time.Minute, 10*time.Minute),
		nil,
	)
	return svc, db
}

func seedColumnWithModules(t *testing.T, db *gorm.DB) gormModels.CatalogColumn {
	column := gormModels.CatalogColumn{
		ID:                    "col-1",
		Reference:             "CITY-6M",
		Pack:                  "essential",
		HeightMeters:          6,
		IsActive:              true,
		CompatLuminaire:       true,
		CompatElectricalPanel: true,
		CompatTelemetry:       true,
	}
	if err := db.Create(&column).Error; err != nil {
		t.Fatalf("Failed to seed column: %v", err)
	}

	modules := []gormModels.CatalogModule{
		{ID: "lum-1", Reference: "LUM-1", Category: "luminaire", PowerWatts: f64(120), IsActive: true},
		{ID: "ep-1", Reference: "EP-1", Category: "electrical_panel", PowerWatts: f64(500), IsActive: true},
		{ID: "lum-dead", Reference: "LUM-DEAD", Category: "luminaire", PowerWatts: f64(90), IsActive: false},
	}
	for i := range modules {
		if err := db.Create(&modules[i]).Error; err != nil {
			t.Fatalf("Failed to seed module: %v", err)
		}
		if err := db.Model(&column).Association("Modules").Append(&modules[i]); err != nil {
			t.Fatalf("Failed to scope module to column: %v", err)
		}
	}

	// Compatible with nothing configured for this column.
	stray := gormModels.CatalogModule{ID: "ant-stray", Reference: "ANT-STRAY", Category: "antenna", PowerWatts: f64(5), IsActive: true}
	if err := db.Create(&stray).Error; err != nil {
		t.Fatalf("Failed to seed stray module: %v", err)
	}

	return column
}

func TestCatalogServiceListColumns(t *testing.T) {
	svc, db := newCatalogServiceForTest(t)
	seedColumnWithModules(t, db)

	inactive := gormModels.CatalogColumn{ID: "col-dead", Reference: "RETIRED", IsActive: false}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("Failed to seed inactive column: %v", err)
	}

	columns, err := svc.ListColumns(context.Background())
	if err != nil {
		t.Fatalf("ListColumns: %v", err)
	}
	if len(columns) != 1 {
		t.Fatalf("ListColumns returned %d columns, want 1 (inactive excluded)", len(columns))
	}

	col := columns[0]
	if col.ID != "col-1" || col.Pack != catalog.PackEssential {
		t.Errorf("column = %s/%s, want col-1/essential", col.ID, col.Pack)
	}
	cats := col.CompatibleCategories()
	if len(cats) != 3 {
		t.Fatalf("CompatibleCategories = %v, want 3 categories", cats)
	}
	if !col.Compatibility.Has(catalog.CategoryElectricalPanel) || col.Compatibility.Has(catalog.CategoryAntenna) {
		t.Error("compatibility flags were not projected correctly")
	}
}

func TestCatalogServiceListColumnsUsesCache(t *testing.T) {
	svc, db := newCatalogServiceForTest(t)
	seedColumnWithModules(t, db)

	if _, err := svc.ListColumns(context.Background()); err != nil {
		t.Fatalf("ListColumns: %v", err)
	}

	// Drop the row; the cached listing must still serve.
	if err := db.Delete(&gormModels.CatalogColumn{}, "id = ?", "col-1").Error; err != nil {
		t.Fatalf("Failed to delete column: %v", err)
	}

	columns, err := svc.ListColumns(context.Background())
	if err != nil {
		t.Fatalf("ListColumns after delete: %v", err)
	}
	if len(columns) != 1 {
		t.Errorf("cached listing lost: got %d columns, want 1", len(columns))
	}
}

func TestCatalogServiceGetColumn(t *testing.T) {
	svc, db := newCatalogServiceForTest(t)
	seedColumnWithModules(t, db)

	col, err := svc.GetColumn(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("GetColumn: %v", err)
	}
	if col.Reference != "CITY-6M" {
		t.Errorf("Reference = %q, want CITY-6M", col.Reference)
	}

	if _, err := svc.GetColumn(context.Background(), "ghost"); !errors.Is(err, constants.ErrUnknownColumn) {
		t.Errorf("GetColumn(ghost) = %v, want ErrUnknownColumn", err)
	}
}

func TestCatalogServiceCompatibleModules(t *testing.T) {
	svc, db := newCatalogServiceForTest(t)
	seedColumnWithModules(t, db)

	set, err := svc.CompatibleModules(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("CompatibleModules: %v", err)
	}

	luminaires := set[catalog.CategoryLuminaire]
	if len(luminaires) != 1 || luminaires[0].ID != "lum-1" {
		t.Errorf("luminaires = %v, want only the active lum-1", luminaires)
	}
	if len(set[catalog.CategoryElectricalPanel]) != 1 {
		t.Errorf("electrical panels = %v, want 1", set[catalog.CategoryElectricalPanel])
	}
	if len(set[catalog.CategoryAntenna]) != 0 {
		t.Error("a module never scoped to the column leaked into its module set")
	}
}
