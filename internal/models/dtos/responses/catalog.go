package responses

import "urbanlight/columnforge/internal/models/catalog"

// ColumnResponse is a catalog column plus its projected capability set.
type ColumnResponse struct {
	catalog.Column
	CompatibleCategories []catalog.Category `json:"compatible_categories"`
}

// ColumnsResponse lists the catalog's base products.
type ColumnsResponse struct {
	Columns []ColumnResponse `json:"columns"`
}

// CompatibleModulesResponse groups a column's compatible modules by
// category, one named field per category so the dashboard can bind its
// pickers directly.
type CompatibleModulesResponse struct {
	Luminaires       []catalog.Module `json:"luminaires"`
	ElectricalPanels []catalog.Module `json:"electricalPanels"`
	FuseBoxes        []catalog.Module `json:"fuseBoxes"`
	Telemetry        []catalog.Module `json:"telemetry"`
	EVChargers       []catalog.Module `json:"evChargers"`
	DisplayPanels    []catalog.Module `json:"displayPanels"`
	LateralPanels    []catalog.Module `json:"lateralPanels"`
	Antennas         []catalog.Module `json:"antennas"`
}

// NewCompatibleModulesResponse flattens a ModuleSet into the grouped shape.
func NewCompatibleModulesResponse(set catalog.ModuleSet) CompatibleModulesResponse {
	return CompatibleModulesResponse{
		Luminaires:       set[catalog.CategoryLuminaire],
		ElectricalPanels: set[catalog.CategoryElectricalPanel],
		FuseBoxes:        set[catalog.CategoryFuseBox],
		Telemetry:        set[catalog.CategoryTelemetry],
		EVChargers:       set[catalog.CategoryEVCharger],
		DisplayPanels:    set[catalog.CategoryDisplayPanel],
		LateralPanels:    set[catalog.CategoryLateralPanel],
		Antennas:         set[catalog.CategoryAntenna],
	}
}

// ShareLinkResponse carries a freshly signed share link.
type ShareLinkResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
