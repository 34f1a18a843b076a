package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"urbanlight/columnforge/internal/auth"
	"urbanlight/columnforge/internal/db/repositories"
	"urbanlight/columnforge/internal/logging"
)

// AuthMiddleware authenticates requests via the X-API-Key header. Keys are
// stored hashed; the tenant the key belongs to is injected into the request
// context for downstream scoping.
func AuthMiddleware(keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				http.Error(w, "Unauthorized. Missing API Key", http.StatusUnauthorized)
				return
			}

			sum := sha256.Sum256([]byte(apiKey))
			keyHash := hex.EncodeToString(sum[:])

			keyRes, err := keysRepo.GetByHash(r.Context(), keyHash)
			if err != nil {
				logging.Error("API key lookup failed", "error", err.Error())
				http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
				return
			}
			if keyRes == nil || !keyRes.IsActive {
				http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
				return
			}

			// best effort, usage tracking must not block the request
			go func() { _ = keysRepo.Touch(context.Background(), keyRes.ID) }()

			claims := &auth.TenantClaims{
				TenantID: keyRes.TenantID,
				KeyID:    keyRes.ID,
				KeyLabel: keyRes.Label,
			}

			ctx := auth.SetTenantClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
