package gorm

import (
	"urbanlight/columnforge/internal/models/catalog"
)

// ToDomain projects the persisted column onto the domain type, folding the
// eight compatibility flags into a CompatibilitySet.
func (c CatalogColumn) ToDomain() catalog.Column {
	var set catalog.CompatibilitySet
	flags := [catalog.NumCategories]bool{
		c.CompatLuminaire,
		c.CompatElectricalPanel,
		c.CompatFuseBox,
		c.CompatTelemetry,
		c.CompatEVCharger,
		c.CompatDisplayPanel,
		c.CompatLateralPanel,
		c.CompatAntenna,
	}
	for i, on := range flags {
		if on {
			set = set.With(catalog.Category(i))
		}
	}

	return catalog.Column{
		ID:            c.ID,
		Reference:     c.Reference,
		Description:   c.Description,
		Pack:          catalog.PackTier(c.Pack),
		HeightMeters:  c.HeightMeters,
		ArmCount:      c.ArmCount,
		Compatibility: set,
	}
}

// ToDomain projects the persisted module onto the domain type, normalizing
// the category-dependent rating column to watts.
func (m CatalogModule) ToDomain() (catalog.Module, error) {
	cat, err := catalog.ParseCategory(m.Category)
	if err != nil {
		return catalog.Module{}, err
	}

	var watts float64
	switch {
	case m.PowerKilowatts != nil:
		watts = *m.PowerKilowatts * 1000
	case m.ConsumptionWatts != nil:
		watts = *m.ConsumptionWatts
	case m.PowerWatts != nil:
		watts = *m.PowerWatts
	}

	manufacturer := ""
	if m.Manufacturer != nil {
		manufacturer = *m.Manufacturer
	}

	return catalog.Module{
		ID:           m.ID,
		Reference:    m.Reference,
		Manufacturer: manufacturer,
		Category:     cat,
		PowerWatts:   watts,
	}, nil
}
