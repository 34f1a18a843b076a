package routes

import (
	"github.com/go-chi/chi/v5"

	"urbanlight/columnforge/internal/api"
	"urbanlight/columnforge/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// Public routes: share links carry their own authorization.
	r.Group(func(public chi.Router) {
		public.Use(middleware.RateLimitMiddleware)
		public.Get("/shared/configurations/{token}", handlers.GetSharedConfiguration())
	})

	// API v1 routes. All require a tenant API key.
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Repo.Keys))

		// Catalog browsing
		v1.Get("/catalog/columns", handlers.ListColumns())
		v1.Get("/catalog/columns/{column_id}/modules", handlers.ListCompatibleModules())
		v1.Get("/catalog/columns/{column_id}/modules/{category}", handlers.ListCategoryModules())

		// Stateless power preview
		v1.Post("/power/preview", handlers.PowerPreview())

		// Wizard sessions
		v1.Route("/wizard/sessions", func(wz chi.Router) {
			wz.Post("/", handlers.CreateWizardSession())
			wz.Route("/{session_id}", func(s chi.Router) {
				s.Get("/", handlers.GetWizardState())
				s.Delete("/", handlers.CancelWizard())
				s.Put("/column", handlers.SelectColumn())
				s.Post("/modules/reload", handlers.ReloadModules())
				s.Put("/modules/{category}", handlers.SetModule())
				s.Delete("/modules/{category}", handlers.ClearModule())
				s.Post("/next", handlers.NextStep())
				s.Post("/previous", handlers.PreviousStep())
				s.Post("/complete", handlers.CompleteWizard())
			})
		})

		// Assets
		v1.Get("/assets/{asset_id}/configuration", handlers.GetAssetConfiguration())
		v1.Post("/assets/{asset_id}/share-link", handlers.CreateShareLink())
	})
}
