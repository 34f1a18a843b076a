package services

import (
	"context"
	"fmt"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/models/catalog"
)

// PowerBudget is the contract the engine requires from the power budget
// backend. The engine assembles the request (the non-empty slots) and
// trusts the response verbatim; it never re-derives remaining power or the
// validity verdict from raw module data. Implementations must be
// idempotent: an unchanged selection yields an identical calculation.
type PowerBudget interface {
	Calculate(ctx context.Context, selection catalog.SelectionState) (*catalog.PowerCalculation, error)
}

// PowerService is the in-process implementation of the budget contract,
// backed by the module repository for ratings.
type PowerService struct {
	modules *repositories.CatalogModuleRepository
}

// Ensure PowerService implements PowerBudget
var _ PowerBudget = (*PowerService)(nil)

func NewPowerService(modules *repositories.CatalogModuleRepository) *PowerService {
	return &PowerService{modules: modules}
}

// Connection type thresholds, in watts of source capacity.
const (
	singlePhaseMaxWatts = 3700
	threePhaseMinWatts  = 11000
)

// Calculate computes the budget verdict for a selection. The installed
// load is summed in stable category order, so the result is deterministic
// for a given selection regardless of how it was built up.
func (s *PowerService) Calculate(ctx context.Context, selection catalog.SelectionState) (*catalog.PowerCalculation, error) {
	ids := selection.ModuleIDs()

	byID := make(map[string]catalog.Module, len(ids))
	if len(ids) > 0 {
		rows, err := s.modules.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("power calculation: %w", err)
		}
		for _, row := range rows {
			module, err := row.ToDomain()
			if err != nil {
				return nil, fmt.Errorf("power calculation: %w", err)
			}
			byID[module.ID] = module
		}
	}

	calc := &catalog.PowerCalculation{
		ConnectionType: catalog.ConnectionNone,
		Breakdown:      []catalog.PowerLineItem{},
	}

	// Power source: the electrical panel wins when both source slots are
	// filled; the fuse box then contributes distribution, not load.
	var sourceCategory *catalog.Category
	if selection.Get(catalog.CategoryElectricalPanel) != "" {
		c := catalog.CategoryElectricalPanel
		sourceCategory = &c
	} else if selection.Get(catalog.CategoryFuseBox) != "" {
		c := catalog.CategoryFuseBox
		sourceCategory = &c
	}

	if sourceCategory != nil {
		sourceID := selection.Get(*sourceCategory)
		source, ok := byID[sourceID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", constants.ErrUnknownModule, sourceID)
		}
		calc.PowerSource = sourceCategory
		calc.PowerSourceModuleID = source.ID
		calc.MaxPowerWatts = source.PowerWatts
		calc.ConnectionType = connectionTypeFor(source.PowerWatts)
	}

	// Installed load: every selected module outside the power-source
	// categories, in stable category order.
	for _, category := range catalog.AllCategories() {
		if category.IsPowerSource() {
			continue
		}
		moduleID := selection.Get(category)
		if moduleID == "" {
			continue
		}
		module, ok := byID[moduleID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", constants.ErrUnknownModule, moduleID)
		}
		if module.Category != category {
			return nil, fmt.Errorf("%w: %s is %s, slot is %s", constants.ErrModuleWrongCategory, moduleID, module.Category, category)
		}

		calc.InstalledPowerWatts += module.PowerWatts
		calc.Breakdown = append(calc.Breakdown, catalog.PowerLineItem{
			ModuleID:   module.ID,
			Reference:  module.Reference,
			Category:   category,
			PowerWatts: module.PowerWatts,
		})
	}

	calc.RemainingPowerWatts = calc.MaxPowerWatts - calc.InstalledPowerWatts
	calc.IsValid = sourceCategory != nil && calc.RemainingPowerWatts >= 0

	return calc, nil
}

// connectionTypeFor infers the electrical connection from the source
// capacity. Pure function of the rating, which keeps the whole calculation
// idempotent for an unchanged selection.
func connectionTypeFor(maxPowerWatts float64) catalog.ConnectionType {
	switch {
	case maxPowerWatts <= 0:
		return catalog.ConnectionNone
	case maxPowerWatts < singlePhaseMaxWatts:
		return catalog.ConnectionSinglePhase
	case maxPowerWatts >= threePhaseMinWatts:
		return catalog.ConnectionThreePhase
	default:
		return catalog.ConnectionDualPhase
	}
}
