package requests

type CreateWizardSessionRequest struct {
	// ColumnID optionally seeds the session with an already chosen column.
	ColumnID string `json:"column_id,omitempty"`
}

type SelectColumnRequest struct {
	ColumnID string `json:"column_id" validate:"required"`
}

type SetModuleRequest struct {
	ModuleID string `json:"module_id" validate:"required"`
}

type CompleteWizardRequest struct {
	// AssetID is the asset record the finished configuration is applied to.
	AssetID string `json:"asset_id" validate:"required"`
}

type PowerPreviewRequest struct {
	// Modules maps category slugs to selected module ids.
	Modules map[string]string `json:"modules"`
}

// CreateShareLinkRequest configures the link; the target asset comes from
// the URL.
type CreateShareLinkRequest struct {
	ExpiryMinutes int `json:"expiry_minutes,omitempty"`
}
