package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"urbanlight/columnforge/internal/auth"
	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/models/dtos/requests"
	"urbanlight/columnforge/internal/models/dtos/responses"
)

const defaultShareExpiryMinutes = 60

// CreateShareLink handles POST /assets/{asset_id}/share-link.
// The signed token grants single-use, read-only access to the asset's
// stored configuration snapshot.
func (h *Handlers) CreateShareLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetTenantClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
			return
		}

		assetID := chi.URLParam(r, "asset_id")

		var req requests.CreateShareLinkRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
				return
			}
		}

		// The asset must exist and carry a snapshot before a link makes sense.
		snapshot, err := h.deps.Services.Assets.GetConfiguration(r.Context(), claims.TenantID, assetID)
		if err != nil {
			respondWithError(w, http.StatusNotFound, constants.MsgAssetNotFound)
			return
		}
		if len(snapshot) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, constants.MsgAssetNotConfigured)
			return
		}

		expiryMinutes := req.ExpiryMinutes
		if expiryMinutes <= 0 {
			expiryMinutes = defaultShareExpiryMinutes
		}
		ttl := time.Duration(expiryMinutes) * time.Minute

		token, err := h.deps.Services.Share.GenerateShareToken(claims.TenantID, assetID, ttl)
		if err != nil {
			logging.Error("Failed to sign share token", "asset_id", assetID, "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "Unable to create share link")
			return
		}

		resp := &responses.ShareLinkResponse{
			Token:     token,
			URL:       fmt.Sprintf("%s/shared/configurations/%s", publicBaseURL(), token),
			ExpiresIn: expiryMinutes * 60,
		}
		respondWithSuccess(w, http.StatusCreated, resp)
	}
}

// GetSharedConfiguration handles GET /shared/configurations/{token}.
// Unauthenticated: the token carries the authorization. The token is
// consumed on first successful read.
func (h *Handlers) GetSharedConfiguration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := chi.URLParam(r, "token")

		token, err := h.deps.Services.Share.ValidateToken(r.Context(), tokenString)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgShareTokenInvalid)
			return
		}

		snapshot, err := h.deps.Services.Assets.GetConfiguration(r.Context(), token.TenantID, token.AssetID)
		if err != nil || len(snapshot) == 0 {
			respondWithError(w, http.StatusNotFound, constants.MsgAssetNotFound)
			return
		}

		if err := h.deps.Services.Share.MarkTokenAsUsed(r.Context(), token.TokenID); err != nil {
			logging.Warn("Failed to mark share token as used", "token_id", token.TokenID, "error", err.Error())
		}

		respondWithSuccess(w, http.StatusOK, &snapshot)
	}
}

func publicBaseURL() string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3001"
}
