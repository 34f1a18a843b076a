package api

import (
	"errors"
	"net/http"

	"urbanlight/columnforge/internal/constants"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// statusForError maps engine errors onto HTTP status codes. Guard and
// precondition violations are client errors; everything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, constants.ErrSessionNotFound),
		errors.Is(err, constants.ErrUnknownColumn),
		errors.Is(err, constants.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, constants.ErrInvalidTransition),
		errors.Is(err, constants.ErrWizardCompleted),
		errors.Is(err, constants.ErrWizardCancelled):
		return http.StatusConflict
	case errors.Is(err, constants.ErrNoColumnSelected),
		errors.Is(err, constants.ErrNoPowerSource),
		errors.Is(err, constants.ErrPowerBudgetInvalid),
		errors.Is(err, constants.ErrPowerBudgetAbsent),
		errors.Is(err, constants.ErrCategoryNotSupported),
		errors.Is(err, constants.ErrModuleWrongCategory),
		errors.Is(err, constants.ErrUnknownModule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, constants.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
