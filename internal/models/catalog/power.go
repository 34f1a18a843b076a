package catalog

// ConnectionType describes the electrical connection inferred from the
// selected power source's capacity.
type ConnectionType string

const (
	ConnectionSinglePhase ConnectionType = "single_phase"
	ConnectionDualPhase   ConnectionType = "dual_phase"
	ConnectionThreePhase  ConnectionType = "three_phase"
	ConnectionNone        ConnectionType = "none"
)

// PowerLineItem is one row of the budget breakdown: a selected module and
// the wattage it contributes to the installed load.
type PowerLineItem struct {
	ModuleID   string   `json:"module_id"`
	Reference  string   `json:"reference"`
	Category   Category `json:"category"`
	PowerWatts float64  `json:"power_watts"`
}

// PowerCalculation is the budget verdict for one selection state. It is
// produced by the power budget service and consumed verbatim; the engine
// never recomputes any of its fields locally.
type PowerCalculation struct {
	MaxPowerWatts       float64         `json:"max_power_watts"`
	InstalledPowerWatts float64         `json:"installed_power_watts"`
	RemainingPowerWatts float64         `json:"remaining_power_watts"`
	PowerSource         *Category       `json:"power_source,omitempty"`
	PowerSourceModuleID string          `json:"power_source_module_id,omitempty"`
	ConnectionType      ConnectionType  `json:"connection_type"`
	IsValid             bool            `json:"is_valid"`
	Breakdown           []PowerLineItem `json:"breakdown"`
}

// Clone returns an independent copy, including the breakdown slice.
func (p *PowerCalculation) Clone() *PowerCalculation {
	if p == nil {
		return nil
	}
	out := *p
	if p.PowerSource != nil {
		src := *p.PowerSource
		out.PowerSource = &src
	}
	out.Breakdown = make([]PowerLineItem, len(p.Breakdown))
	copy(out.Breakdown, p.Breakdown)
	return &out
}

// ConfigurationResult is the terminal artifact of a completed wizard run.
// It carries no references back into mutable wizard state and is never
// mutated after assembly.
type ConfigurationResult struct {
	ColumnID        string           `json:"column_id"`
	ColumnReference string           `json:"column_reference"`
	Pack            PackTier         `json:"pack"`
	HeightMeters    float64          `json:"height_m"`
	Modules         SelectionState   `json:"modules"`
	Power           PowerCalculation `json:"power_calculation"`
}
