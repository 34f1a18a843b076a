// Package catalog holds the domain model of the asset configuration engine:
// base products (columns), accessory modules, the per-wizard selection state
// and the derived power calculation. It is a pure data package with no
// persistence or transport imports.
package catalog

// PackTier is the commercial tier of a column product.
type PackTier string

const (
	PackEssential PackTier = "essential"
	PackAdvanced  PackTier = "advanced"
	PackPremium   PackTier = "premium"
)

// Column is a base product from the catalog. Immutable once loaded;
// identified by ID.
type Column struct {
	ID            string           `json:"id"`
	Reference     string           `json:"reference"`
	Description   string           `json:"description"`
	Pack          PackTier         `json:"pack"`
	HeightMeters  float64          `json:"height_m"`
	ArmCount      int              `json:"arm_count"`
	Compatibility CompatibilitySet `json:"-"`
}

// CompatibleCategories projects the column's capability set to the
// categories it supports.
func (c Column) CompatibleCategories() []Category {
	return c.Compatibility.Categories()
}

// Module is an accessory belonging to exactly one category. PowerWatts is
// the rating normalized to watts at catalog load time, regardless of the
// unit the category uses in storage.
type Module struct {
	ID           string   `json:"id"`
	Reference    string   `json:"reference"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Category     Category `json:"category"`
	PowerWatts   float64  `json:"power_watts"`
}

// ModuleSet groups compatible modules by category for one column, in the
// shape the dashboard consumes.
type ModuleSet map[Category][]Module
