package catalog

import "testing"

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		parsed, err := ParseCategory(c.String())
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), parsed, c)
		}
	}

	if _, err := ParseCategory("jacuzzi"); err == nil {
		t.Error("expected error for unknown category slug")
	}
	if _, err := ParseCategory(""); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestCategoryIsPowerSource(t *testing.T) {
	for _, c := range AllCategories() {
		want := c == CategoryElectricalPanel || c == CategoryFuseBox
		if got := c.IsPowerSource(); got != want {
			t.Errorf("%s.IsPowerSource() = %v, want %v", c, got, want)
		}
	}
}

func TestCompatibilitySet(t *testing.T) {
	set := NewCompatibilitySet(CategoryLuminaire, CategoryAntenna, CategoryElectricalPanel)

	if !set.Has(CategoryLuminaire) || !set.Has(CategoryAntenna) || !set.Has(CategoryElectricalPanel) {
		t.Error("expected all added categories present")
	}
	if set.Has(CategoryEVCharger) {
		t.Error("ev_charger was never added")
	}

	// Categories() returns declaration order, not insertion order.
	got := set.Categories()
	want := []Category{CategoryLuminaire, CategoryElectricalPanel, CategoryAntenna}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories() = %v, want %v", got, want)
		}
	}
}
