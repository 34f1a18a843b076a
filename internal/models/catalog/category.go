package catalog

import "fmt"

// Category identifies one of the eight fixed accessory categories a column
// can carry. The numeric order is stable and used wherever a deterministic
// iteration over categories is needed (sums, breakdowns, JSON grouping).
type Category int

const (
	CategoryLuminaire Category = iota
	CategoryElectricalPanel
	CategoryFuseBox
	CategoryTelemetry
	CategoryEVCharger
	CategoryDisplayPanel
	CategoryLateralPanel
	CategoryAntenna

	// NumCategories is the size of the fixed category set.
	NumCategories = 8
)

var categorySlugs = [NumCategories]string{
	"luminaire",
	"electrical_panel",
	"fuse_box",
	"telemetry",
	"ev_charger",
	"display_panel",
	"lateral_panel",
	"antenna",
}

// AllCategories returns every category in stable order.
func AllCategories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory resolves a slug (e.g. "fuse_box") back to its Category.
func ParseCategory(slug string) (Category, error) {
	for i, s := range categorySlugs {
		if s == slug {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown accessory category %q", slug)
}

func (c Category) Valid() bool {
	return c >= 0 && c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categorySlugs[c]
}

// IsPowerSource reports whether modules of this category can act as the
// configuration's power source (supply max_power for the budget check).
func (c Category) IsPowerSource() bool {
	return c == CategoryElectricalPanel || c == CategoryFuseBox
}

// MarshalText encodes the category as its slug. Implementing TextMarshaler
// (rather than json.Marshaler) lets categories serve as JSON map keys in
// SelectionState and ModuleSet.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid category %d", int(c))
	}
	return []byte(categorySlugs[c]), nil
}

// UnmarshalText decodes a category slug.
func (c *Category) UnmarshalText(data []byte) error {
	parsed, err := ParseCategory(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CompatibilitySet is the column's capability set: one bit per accessory
// category. The zero value is compatible with nothing.
type CompatibilitySet uint8

// NewCompatibilitySet builds a set from the given categories.
func NewCompatibilitySet(categories ...Category) CompatibilitySet {
	var s CompatibilitySet
	for _, c := range categories {
		s = s.With(c)
	}
	return s
}

// With returns a copy of the set with the category marked compatible.
func (s CompatibilitySet) With(c Category) CompatibilitySet {
	if !c.Valid() {
		return s
	}
	return s | 1<<uint(c)
}

// Has reports whether the category is marked compatible.
func (s CompatibilitySet) Has(c Category) bool {
	return c.Valid() && s&(1<<uint(c)) != 0
}

// Categories projects the set to the list of compatible categories, in
// stable category order.
func (s CompatibilitySet) Categories() []Category {
	out := make([]Category, 0, NumCategories)
	for i := 0; i < NumCategories; i++ {
		if s.Has(Category(i)) {
			out = append(out, Category(i))
		}
	}
	return out
}
