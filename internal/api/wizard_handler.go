package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"urbanlight/columnforge/internal/auth"
	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/models/catalog"
	"urbanlight/columnforge/internal/models/dtos/requests"
	"urbanlight/columnforge/internal/services"
)

// CreateWizardSession handles POST /wizard/sessions
func (h *Handlers) CreateWizardSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetTenantClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
			return
		}

		var req requests.CreateWizardSessionRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
				return
			}
		}

		wizard, err := h.deps.Services.Wizards.Create(claims.TenantID, req.ColumnID, nil)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusCreated, &state)
	}
}

// GetWizardState handles GET /wizard/sessions/{session_id}
func (h *Handlers) GetWizardState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}
		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// SelectColumn handles PUT /wizard/sessions/{session_id}/column
func (h *Handlers) SelectColumn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		var req requests.SelectColumnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ColumnID == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}

		if err := wizard.SelectColumn(r.Context(), req.ColumnID); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// SetModule handles PUT /wizard/sessions/{session_id}/modules/{category}
func (h *Handlers) SetModule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var req requests.SetModuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ModuleID == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}

		if err := wizard.SetModule(category, req.ModuleID); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// ClearModule handles DELETE /wizard/sessions/{session_id}/modules/{category}
func (h *Handlers) ClearModule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := wizard.ClearModule(category); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// NextStep handles POST /wizard/sessions/{session_id}/next
func (h *Handlers) NextStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		if err := wizard.Next(r.Context()); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// PreviousStep handles POST /wizard/sessions/{session_id}/previous
func (h *Handlers) PreviousStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		if err := wizard.Previous(); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// ReloadModules handles POST /wizard/sessions/{session_id}/modules/reload
func (h *Handlers) ReloadModules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		if err := wizard.ReloadModules(); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		state := wizard.State()
		respondWithSuccess(w, http.StatusOK, &state)
	}
}

// CompleteWizard handles POST /wizard/sessions/{session_id}/complete.
// The finished configuration is applied to the asset the caller names;
// the session closes on success.
func (h *Handlers) CompleteWizard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetTenantClaims(r.Context())
		wizard, ok := h.wizardFromRequest(w, r)
		if !ok {
			return
		}

		var req requests.CompleteWizardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetID == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}

		// The target asset is verified before Complete closes the session:
		// a bad asset id must leave the wizard open so the caller can retry
		// with the right one instead of losing the configuration.
		if err := h.deps.Services.Assets.EnsureExists(r.Context(), claims.TenantID, req.AssetID); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		result, err := wizard.Complete()
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		if err := h.deps.Services.Assets.ApplyConfiguration(r.Context(), claims.TenantID, req.AssetID, *result); err != nil {
			logging.Error("Failed to apply configuration to asset",
				"asset_id", req.AssetID,
				"error", err.Error(),
			)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}

// CancelWizard handles DELETE /wizard/sessions/{session_id}
func (h *Handlers) CancelWizard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetTenantClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
			return
		}

		sessionID := chi.URLParam(r, "session_id")
		if err := h.deps.Services.Wizards.Abort(claims.TenantID, sessionID); err != nil {
			respondWithError(w, statusForError(err), constants.MsgSessionNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// PowerPreview handles POST /power/preview: a stateless budget calculation
// for an arbitrary selection, used by the asset detail view.
func (h *Handlers) PowerPreview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.PowerPreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}

		selection := catalog.NewSelectionState()
		for slug, moduleID := range req.Modules {
			category, err := catalog.ParseCategory(slug)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			selection.Set(category, moduleID)
		}

		calc, err := h.deps.Services.Power.Calculate(r.Context(), selection)
		if err != nil {
			respondWithError(w, statusForError(err), constants.MsgPowerCalcFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, calc)
	}
}

func (h *Handlers) wizardFromRequest(w http.ResponseWriter, r *http.Request) (*services.Wizard, bool) {
	claims := auth.GetTenantClaims(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
		return nil, false
	}

	sessionID := chi.URLParam(r, "session_id")
	wizard, err := h.deps.Services.Wizards.Get(claims.TenantID, sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, constants.MsgSessionNotFound)
		return nil, false
	}
	return wizard, true
}
