package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"urbanlight/columnforge/internal/auth"
	"urbanlight/columnforge/internal/constants"
)

// GetAssetConfiguration handles GET /assets/{asset_id}/configuration.
// Returns the stored snapshot exactly as persisted; 404 when the asset
// does not exist or carries no configuration yet.
func (h *Handlers) GetAssetConfiguration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetTenantClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
			return
		}

		assetID := chi.URLParam(r, "asset_id")
		snapshot, err := h.deps.Services.Assets.GetConfiguration(r.Context(), claims.TenantID, assetID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, constants.MsgAssetNotFound)
			return
		}
		if len(snapshot) == 0 {
			respondWithError(w, http.StatusNotFound, constants.MsgAssetNotConfigured)
			return
		}

		respondWithSuccess(w, http.StatusOK, &snapshot)
	}
}
