package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/metrics"
	"urbanlight/columnforge/internal/models/catalog"
)

// WizardStep is one of the three linear wizard steps.
type WizardStep int

const (
	StepColumnSelection WizardStep = iota
	StepModuleSelection
	StepSummary
)

func (s WizardStep) String() string {
	switch s {
	case StepColumnSelection:
		return "column_selection"
	case StepModuleSelection:
		return "module_selection"
	case StepSummary:
		return "summary"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText encodes the step as its slug.
func (s WizardStep) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// WizardConfig wires one wizard session.
type WizardConfig struct {
	SessionID string
	TenantID  string

	Directory CatalogDirectory
	Power     PowerBudget

	Metrics *metrics.MetricsRegistry // optional

	// OnComplete receives the assembled result; the wizard itself never
	// persists anything.
	OnComplete func(catalog.ConfigurationResult)
	// OnCancel fires when the session is aborted.
	OnCancel func()
	// Notify fires after every asynchronous state application. The API
	// layer uses it for push updates; tests use it to synchronize.
	Notify func()

	// InitialColumnID optionally seeds the wizard with a column, a valid
	// entry shortcut when the caller re-opens an existing configuration.
	InitialColumnID string
}

// Wizard is the selection state machine behind the three-step configuration
// flow: column, modules, summary. One instance per open wizard; the
// instance is the sole mutator of its own state.
//
// Every mutation of the column or module selection starts a new epoch.
// Asynchronous work (module-list loads, power calculations) is tagged with
// the epoch it was issued under, and its result is discarded if a newer
// epoch has started by the time it lands. A slow module-list response for a
// previously selected column can therefore never overwrite the lists of the
// column selected after it.
type Wizard struct {
	mu sync.Mutex

	cfg      WizardConfig
	resolver *CompatibilityResolver

	step      WizardStep
	column    *catalog.Column
	selection catalog.SelectionState

	// moduleSets is nil until the async load for the current column has
	// landed; moduleErr holds the load failure, retryable via ReloadModules.
	moduleSets catalog.ModuleSet
	moduleErr  error

	// calc is the last power calculation for the current epoch. nil means
	// genuinely absent (no power source yet, or a recomputation is in
	// flight); absent always reads as not valid.
	calc    *catalog.PowerCalculation
	calcErr error

	// epoch guards power calculations; moduleEpoch guards module-list
	// loads. They advance independently: a selection change must discard
	// an in-flight calculation but not an in-flight list reload.
	epoch       uint64
	moduleEpoch uint64
	completed   bool
	cancelled   bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWizard opens a wizard session. The parent context bounds all
// asynchronous work the session spawns.
func NewWizard(parent context.Context, cfg WizardConfig) (*Wizard, error) {
	if cfg.Directory == nil || cfg.Power == nil {
		return nil, fmt.Errorf("wizard requires a catalog directory and a power budget service")
	}

	ctx, cancel := context.WithCancel(parent)
	w := &Wizard{
		cfg:       cfg,
		resolver:  NewCompatibilityResolver(cfg.Directory),
		step:      StepColumnSelection,
		selection: catalog.NewSelectionState(),
		ctx:       ctx,
		cancel:    cancel,
	}

	if cfg.InitialColumnID != "" {
		if err := w.SelectColumn(ctx, cfg.InitialColumnID); err != nil {
			cancel()
			return nil, fmt.Errorf("seeding wizard with column %s: %w", cfg.InitialColumnID, err)
		}
	}

	return w, nil
}

// SessionID returns the session identifier.
func (w *Wizard) SessionID() string { return w.cfg.SessionID }

// TenantID returns the owning tenant.
func (w *Wizard) TenantID() string { return w.cfg.TenantID }

// SelectColumn chooses (or changes) the base product. Only legal on the
// column step. Changing the column clears the entire module selection and
// any cached power calculation: category compatibility and the module
// lists are column-dependent, so the old state is semantically invalid.
func (w *Wizard) SelectColumn(ctx context.Context, columnID string) error {
	w.mu.Lock()
	if err := w.ensureOpen(); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.step != StepColumnSelection {
		w.mu.Unlock()
		return fmt.Errorf("%w: column can only change on the column step", constants.ErrInvalidTransition)
	}
	if w.column != nil && w.column.ID == columnID {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	// Catalog lookup happens outside the lock; a failed lookup leaves the
	// previous column selection untouched.
	column, err := w.cfg.Directory.GetColumn(ctx, columnID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return err
	}

	w.column = column
	w.selection = catalog.NewSelectionState()
	w.calc = nil
	w.calcErr = nil
	w.moduleSets = nil
	w.moduleErr = nil
	w.nextEpochLocked()
	epoch := w.nextModuleEpochLocked()

	go w.loadModules(epoch, column.ID)
	return nil
}

// ReloadModules retries a failed module-list load for the current column
// without touching the column selection.
func (w *Wizard) ReloadModules() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if w.column == nil {
		return constants.ErrNoColumnSelected
	}

	w.moduleSets = nil
	w.moduleErr = nil
	epoch := w.nextModuleEpochLocked()
	go w.loadModules(epoch, w.column.ID)
	return nil
}

// SetModule fills the slot for one category. Legal only on the module
// step. The module must belong to the category and the category must be
// compatible with the selected column.
func (w *Wizard) SetModule(category catalog.Category, moduleID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if w.step != StepModuleSelection {
		return fmt.Errorf("%w: modules can only change on the module step", constants.ErrInvalidTransition)
	}
	if w.column == nil {
		return constants.ErrNoColumnSelected
	}
	if w.moduleSets == nil {
		if w.moduleErr != nil {
			return fmt.Errorf("module lists unavailable: %w", w.moduleErr)
		}
		return fmt.Errorf("module lists for column %s are still loading", w.column.ID)
	}
	if err := w.resolver.ValidateSelection(*w.column, w.moduleSets, category, moduleID); err != nil {
		return err
	}

	w.selection.Set(category, moduleID)
	w.invalidateCalcLocked()
	return nil
}

// ClearModule empties the slot for one category.
func (w *Wizard) ClearModule(category catalog.Category) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if w.step != StepModuleSelection {
		return fmt.Errorf("%w: modules can only change on the module step", constants.ErrInvalidTransition)
	}

	if w.selection.Get(category) == "" {
		return nil
	}
	w.selection.Clear(category)
	w.invalidateCalcLocked()
	return nil
}

// Next advances one step. Forward progression is blocked, not merely
// discouraged, while the step's guard fails.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	if err := w.ensureOpen(); err != nil {
		w.mu.Unlock()
		return err
	}

	switch w.step {
	case StepColumnSelection:
		if w.column == nil {
			w.mu.Unlock()
			return constants.ErrNoColumnSelected
		}
		w.step = StepModuleSelection
		w.mu.Unlock()
		return nil

	case StepModuleSelection:
		if !w.selection.HasPowerSource() {
			w.mu.Unlock()
			return constants.ErrNoPowerSource
		}
		w.step = StepSummary
		// Entering the summary always triggers a fresh calculation; the
		// selection may have changed since the cached one was computed.
		epoch := w.nextEpochLocked()
		selection := w.selection.Clone()
		w.mu.Unlock()
		return w.recalculate(ctx, epoch, selection)

	default:
		w.mu.Unlock()
		return fmt.Errorf("%w: already on the summary step", constants.ErrInvalidTransition)
	}
}

// Previous steps back. Always allowed; selections persist.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if w.step == StepColumnSelection {
		return fmt.Errorf("%w: already on the first step", constants.ErrInvalidTransition)
	}
	w.step--
	return nil
}

// Complete finalizes the wizard. Only legal on the summary step with a
// valid power calculation; a failed or missing calculation fails closed.
// On success the assembled result goes to the OnComplete callback and the
// session closes.
func (w *Wizard) Complete() (*catalog.ConfigurationResult, error) {
	w.mu.Lock()
	if err := w.ensureOpen(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.step != StepSummary {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: complete is only available on the summary step", constants.ErrInvalidTransition)
	}
	if w.calcErr != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", constants.ErrPowerBudgetInvalid, w.calcErr)
	}

	result, err := AssembleConfiguration(w.column, w.selection, w.calc)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}

	w.completed = true
	onComplete := w.cfg.OnComplete
	w.mu.Unlock()

	w.cancel()
	if w.cfg.Metrics != nil {
		w.cfg.Metrics.ConfigurationsCompleted.Inc()
	}
	logging.WithSession(w.cfg.SessionID, w.cfg.TenantID).Infow("Configuration completed",
		"column_id", result.ColumnID,
		"modules", len(result.Modules),
		"remaining_power_watts", result.Power.RemainingPowerWatts,
	)

	if onComplete != nil {
		onComplete(*result)
	}
	return result, nil
}

// Abort cancels the session and any in-flight work. The eventual result of
// a cancelled request is never applied.
func (w *Wizard) Abort() {
	w.mu.Lock()
	if w.completed || w.cancelled {
		w.mu.Unlock()
		return
	}
	w.cancelled = true
	onCancel := w.cfg.OnCancel
	w.mu.Unlock()

	w.cancel()
	if onCancel != nil {
		onCancel()
	}
}

// WizardState is an immutable snapshot of the session for the API layer.
type WizardState struct {
	SessionID            string                    `json:"session_id"`
	Step                 WizardStep                `json:"step"`
	Column               *catalog.Column           `json:"column,omitempty"`
	CompatibleCategories []catalog.Category        `json:"compatible_categories,omitempty"`
	Modules              catalog.ModuleSet         `json:"modules,omitempty"`
	ModulesLoaded        bool                      `json:"modules_loaded"`
	ModuleLoadError      string                    `json:"module_load_error,omitempty"`
	Selection            catalog.SelectionState    `json:"selection"`
	Power                *catalog.PowerCalculation `json:"power,omitempty"`
	PowerError           string                    `json:"power_error,omitempty"`
	IsValid              bool                      `json:"is_valid"`
}

// State snapshots the session. The snapshot shares nothing mutable with
// the wizard.
func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := WizardState{
		SessionID:     w.cfg.SessionID,
		Step:          w.step,
		Selection:     w.selection.Clone(),
		ModulesLoaded: w.moduleSets != nil,
		Power:         w.calc.Clone(),
		IsValid:       w.calc != nil && w.calc.IsValid,
	}
	if w.column != nil {
		col := *w.column
		state.Column = &col
		state.CompatibleCategories = w.resolver.CompatibleCategories(*w.column)
	}
	if w.moduleSets != nil {
		state.Modules = make(catalog.ModuleSet, len(w.moduleSets))
		for cat, modules := range w.moduleSets {
			state.Modules[cat] = append([]catalog.Module(nil), modules...)
		}
	}
	if w.moduleErr != nil {
		state.ModuleLoadError = w.moduleErr.Error()
	}
	if w.calcErr != nil {
		state.PowerError = w.calcErr.Error()
	}
	return state
}

// invalidateCalcLocked drops the cached calculation and, when a power
// source is present, schedules an asynchronous recomputation under a new
// epoch. With no power source the calculation stays genuinely absent.
func (w *Wizard) invalidateCalcLocked() {
	w.calc = nil
	w.calcErr = nil
	epoch := w.nextEpochLocked()

	if !w.selection.HasPowerSource() {
		return
	}

	selection := w.selection.Clone()
	go func() {
		_ = w.recalculate(w.ctx, epoch, selection)
	}()
}

// recalculate runs one power calculation and applies the result if the
// epoch is still current.
func (w *Wizard) recalculate(ctx context.Context, epoch uint64, selection catalog.SelectionState) error {
	started := time.Now()
	calc, err := w.cfg.Power.Calculate(ctx, selection)
	if w.cfg.Metrics != nil {
		w.cfg.Metrics.PowerCalcDuration.Observe(time.Since(started).Seconds())
	}

	w.mu.Lock()
	if w.epoch != epoch || w.cancelled || w.completed {
		w.mu.Unlock()
		w.discardStale("power calculation")
		return nil
	}
	if err != nil {
		// fail closed: an absent calculation never reads as valid
		w.calc = nil
		w.calcErr = err
	} else {
		w.calc = calc
		w.calcErr = nil
	}
	w.mu.Unlock()

	if w.cfg.Metrics != nil {
		outcome := "error"
		if err == nil {
			outcome = "invalid"
			if calc.IsValid {
				outcome = "valid"
			}
		}
		w.cfg.Metrics.PowerCalculationsTotal.WithLabelValues(outcome).Inc()
	}
	w.notify()

	if err != nil {
		return fmt.Errorf("power calculation failed: %w", err)
	}
	return nil
}

// loadModules fetches the compatible-module lists for a column and applies
// them if the epoch is still current.
func (w *Wizard) loadModules(epoch uint64, columnID string) {
	set, err := w.cfg.Directory.CompatibleModules(w.ctx, columnID)

	w.mu.Lock()
	if w.moduleEpoch != epoch || w.cancelled || w.completed {
		w.mu.Unlock()
		w.discardStale("module list")
		return
	}
	if err != nil {
		w.moduleSets = nil
		w.moduleErr = err
	} else {
		w.moduleSets = set
		w.moduleErr = nil
	}
	w.mu.Unlock()

	if err != nil {
		logging.WithSession(w.cfg.SessionID, w.cfg.TenantID).Warnw("Module list load failed",
			"column_id", columnID,
			"error", err.Error(),
		)
	}
	w.notify()
}

func (w *Wizard) nextEpochLocked() uint64 {
	w.epoch++
	return w.epoch
}

func (w *Wizard) nextModuleEpochLocked() uint64 {
	w.moduleEpoch++
	return w.moduleEpoch
}

func (w *Wizard) ensureOpen() error {
	if w.completed {
		return constants.ErrWizardCompleted
	}
	if w.cancelled {
		return constants.ErrWizardCancelled
	}
	return nil
}

func (w *Wizard) discardStale(kind string) {
	if w.cfg.Metrics != nil {
		w.cfg.Metrics.StaleResponsesDiscarded.Inc()
	}
	logging.WithSession(w.cfg.SessionID, w.cfg.TenantID).Debugw("Discarded stale async response", "kind", kind)
}

func (w *Wizard) notify() {
	if w.cfg.Notify != nil {
		w.cfg.Notify()
	}
}
