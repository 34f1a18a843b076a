package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/models/catalog"
	gormModels "urbanlight/columnforge/internal/models/gorm"
)

func setupCatalogDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.CatalogColumn{}, &gormModels.CatalogModule{}, &gormModels.Asset{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func f64(v float64) *float64 { return &v }

func seedModules(t *testing.T, db *gorm.DB, modules ...gormModels.CatalogModule) {
	for i := range modules {
		modules[i].IsActive = true
		if err := db.Create(&modules[i]).Error; err != nil {
			t.Fatalf("Failed to seed module %s: %v", modules[i].ID, err)
		}
	}
}

func newPowerServiceForTest(t *testing.T) (*PowerService, *gorm.DB) {
	db := setupCatalogDB(t)
	seedModules(t, db,
		gormModels.CatalogModule{ID: "ep-500", Reference: "EP-500", Category: "electrical_panel", PowerWatts: f64(500)},
		gormModels.CatalogModule{ID: "ep-12k", Reference: "EP-12K", Category: "electrical_panel", PowerWatts: f64(12000)},
		gormModels.CatalogModule{ID: "fb-300", Reference: "FB-300", Category: "fuse_box", PowerWatts: f64(300)},
		gormModels.CatalogModule{ID: "lum-120", Reference: "LUM-120", Category: "luminaire", PowerWatts: f64(120)},
		gormModels.CatalogModule{ID: "lum-600", Reference: "LUM-600", Category: "luminaire", PowerWatts: f64(600)},
		gormModels.CatalogModule{ID: "tel-30", Reference: "TEL-30", Category: "telemetry", ConsumptionWatts: f64(30)},
		gormModels.CatalogModule{ID: "ev-7", Reference: "EV-7", Category: "ev_charger", PowerKilowatts: f64(7.4)},
	)
	return NewPowerService(repositories.NewCatalogModuleRepository(db)), db
}

func TestPowerServiceCalculateValidSelection(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	selection.Set(catalog.CategoryLuminaire, "lum-120")
	selection.Set(catalog.CategoryTelemetry, "tel-30")

	calc, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if calc.MaxPowerWatts != 500 {
		t.Errorf("MaxPowerWatts = %v, want 500", calc.MaxPowerWatts)
	}
	if calc.InstalledPowerWatts != 150 {
		t.Errorf("InstalledPowerWatts = %v, want 150", calc.InstalledPowerWatts)
	}
	if calc.RemainingPowerWatts != 350 {
		t.Errorf("RemainingPowerWatts = %v, want 350", calc.RemainingPowerWatts)
	}
	if !calc.IsValid {
		t.Error("expected a valid budget")
	}
	if calc.PowerSource == nil || *calc.PowerSource != catalog.CategoryElectricalPanel {
		t.Errorf("PowerSource = %v, want electrical_panel", calc.PowerSource)
	}
	if calc.ConnectionType != catalog.ConnectionSinglePhase {
		t.Errorf("ConnectionType = %v, want single_phase", calc.ConnectionType)
	}
	if len(calc.Breakdown) != 2 {
		t.Fatalf("Breakdown has %d items, want 2 (power source excluded)", len(calc.Breakdown))
	}
	// Breakdown follows stable category order: luminaire before telemetry.
	if calc.Breakdown[0].ModuleID != "lum-120" || calc.Breakdown[1].ModuleID != "tel-30" {
		t.Errorf("Breakdown order = [%s %s], want [lum-120 tel-30]",
			calc.Breakdown[0].ModuleID, calc.Breakdown[1].ModuleID)
	}
}

func TestPowerServiceCalculateOverBudget(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	selection.Set(catalog.CategoryLuminaire, "lum-600")

	calc, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if calc.RemainingPowerWatts != -100 {
		t.Errorf("RemainingPowerWatts = %v, want -100", calc.RemainingPowerWatts)
	}
	if calc.IsValid {
		t.Error("negative remaining power must not be valid")
	}
}

func TestPowerServiceCalculateNoPowerSource(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryLuminaire, "lum-120")

	calc, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if calc.IsValid {
		t.Error("no power source selected: budget must be invalid")
	}
	if calc.PowerSource != nil {
		t.Errorf("PowerSource = %v, want nil", calc.PowerSource)
	}
	if calc.MaxPowerWatts != 0 {
		t.Errorf("MaxPowerWatts = %v, want 0", calc.MaxPowerWatts)
	}
	if calc.ConnectionType != catalog.ConnectionNone {
		t.Errorf("ConnectionType = %v, want none", calc.ConnectionType)
	}
	// Installed load is still reported for the preview.
	if calc.InstalledPowerWatts != 120 {
		t.Errorf("InstalledPowerWatts = %v, want 120", calc.InstalledPowerWatts)
	}
}

func TestPowerServiceElectricalPanelWinsOverFuseBox(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	selection.Set(catalog.CategoryFuseBox, "fb-300")

	calc, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if calc.PowerSource == nil || *calc.PowerSource != catalog.CategoryElectricalPanel {
		t.Errorf("PowerSource = %v, want electrical_panel", calc.PowerSource)
	}
	if calc.MaxPowerWatts != 500 {
		t.Errorf("MaxPowerWatts = %v, want the panel's 500", calc.MaxPowerWatts)
	}
	// The fuse box is a source-category slot: it never counts as load.
	if calc.InstalledPowerWatts != 0 {
		t.Errorf("InstalledPowerWatts = %v, want 0", calc.InstalledPowerWatts)
	}
}

func TestPowerServiceWattsNormalization(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-12k")
	selection.Set(catalog.CategoryEVCharger, "ev-7")
	selection.Set(catalog.CategoryTelemetry, "tel-30")

	calc, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 7.4 kW charger + 30 W consumption module.
	if calc.InstalledPowerWatts != 7430 {
		t.Errorf("InstalledPowerWatts = %v, want 7430", calc.InstalledPowerWatts)
	}
	if calc.ConnectionType != catalog.ConnectionThreePhase {
		t.Errorf("ConnectionType = %v, want three_phase for a 12kW source", calc.ConnectionType)
	}
}

func TestPowerServiceCalculateIsIdempotent(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	selection.Set(catalog.CategoryLuminaire, "lum-120")

	first, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := svc.Calculate(context.Background(), selection)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if *first.PowerSource != *second.PowerSource ||
		first.MaxPowerWatts != second.MaxPowerWatts ||
		first.InstalledPowerWatts != second.InstalledPowerWatts ||
		first.RemainingPowerWatts != second.RemainingPowerWatts ||
		first.ConnectionType != second.ConnectionType ||
		first.IsValid != second.IsValid {
		t.Errorf("unchanged selection produced different results:\n%+v\n%+v", first, second)
	}
}

func TestPowerServiceRejectsUnknownModule(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	selection.Set(catalog.CategoryLuminaire, "ghost")

	if _, err := svc.Calculate(context.Background(), selection); err == nil {
		t.Error("expected error for a module id missing from the catalog")
	}
}

func TestPowerServiceRejectsWrongCategoryModule(t *testing.T) {
	svc, _ := newPowerServiceForTest(t)

	selection := catalog.NewSelectionState()
	selection.Set(catalog.CategoryElectricalPanel, "ep-500")
	// A luminaire id in the antenna slot.
	selection.Set(catalog.CategoryAntenna, "lum-120")

	if _, err := svc.Calculate(context.Background(), selection); err == nil {
		t.Error("expected error for a module filed under the wrong category")
	}
}
