package constants

import "errors"

// Guard and precondition errors surfaced by the configuration engine.
// Precondition violations are programming errors on the caller's side and
// are returned as descriptive failures, never silently coerced.
var (
	ErrNoColumnSelected     = errors.New("no column selected")
	ErrNoPowerSource        = errors.New("no power source selected: an electrical panel or fuse box is required")
	ErrPowerBudgetInvalid   = errors.New("power budget is not valid for the current selection")
	ErrPowerBudgetAbsent    = errors.New("power calculation is absent for the current selection")
	ErrInvalidTransition    = errors.New("invalid wizard step transition")
	ErrWizardCompleted      = errors.New("wizard session already completed")
	ErrWizardCancelled      = errors.New("wizard session cancelled")
	ErrCategoryNotSupported = errors.New("category is not compatible with the selected column")
	ErrModuleWrongCategory  = errors.New("module does not belong to the requested category")
	ErrUnknownColumn        = errors.New("column not found in catalog")
	ErrUnknownModule        = errors.New("module not found in catalog")
	ErrSessionNotFound      = errors.New("wizard session not found")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrCatalogUnavailable   = errors.New("catalog is unavailable")
)

const (
	MsgCatalogLoadFailed  = "Unable to load catalog columns"
	MsgModuleLoadFailed   = "Unable to load compatible modules"
	MsgPowerCalcFailed    = "Unable to compute power budget"
	MsgSessionNotFound    = "Wizard session not found or expired"
	MsgAssetNotFound      = "Asset not found"
	MsgAssetNotConfigured = "Asset has no stored configuration"
	MsgInvalidRequestBody = "Invalid request body"
	MsgUnauthorized       = "Missing or invalid API key"
	MsgShareTokenInvalid  = "Share link is invalid or already used"
)
