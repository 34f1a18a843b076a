package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/models/catalog"
	"urbanlight/columnforge/internal/models/dtos/responses"
)

// ListColumns handles GET /catalog/columns
func (h *Handlers) ListColumns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		columns, err := h.deps.Services.Catalog.ListColumns(r.Context())
		if err != nil {
			logging.Error("Catalog column load failed", "error", err.Error())
			respondWithError(w, http.StatusServiceUnavailable, constants.MsgCatalogLoadFailed)
			return
		}

		resp := responses.ColumnsResponse{Columns: make([]responses.ColumnResponse, 0, len(columns))}
		for _, col := range columns {
			resp.Columns = append(resp.Columns, responses.ColumnResponse{
				Column:               col,
				CompatibleCategories: col.CompatibleCategories(),
			})
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ListCompatibleModules handles GET /catalog/columns/{column_id}/modules
func (h *Handlers) ListCompatibleModules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		columnID := chi.URLParam(r, "column_id")

		// 404 for a column that does not exist, 503 for a load failure;
		// the dashboard retries the latter on demand.
		if _, err := h.deps.Services.Catalog.GetColumn(r.Context(), columnID); err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		set, err := h.deps.Services.Catalog.CompatibleModules(r.Context(), columnID)
		if err != nil {
			logging.Error("Compatible module load failed", "column_id", columnID, "error", err.Error())
			respondWithError(w, http.StatusServiceUnavailable, constants.MsgModuleLoadFailed)
			return
		}

		resp := responses.NewCompatibleModulesResponse(set)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ListCategoryModules handles GET /catalog/columns/{column_id}/modules/{category}
func (h *Handlers) ListCategoryModules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		columnID := chi.URLParam(r, "column_id")
		category, err := catalog.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		column, err := h.deps.Services.Catalog.GetColumn(r.Context(), columnID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}

		modules, err := h.deps.Services.Resolver.ModulesFor(r.Context(), *column, category)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		if modules == nil {
			modules = []catalog.Module{}
		}

		respondWithSuccess(w, http.StatusOK, &modules)
	}
}
