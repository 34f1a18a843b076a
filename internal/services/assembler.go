package services

import (
	"fmt"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/models/catalog"
)

// AssembleConfiguration merges the final column, selection and power
// calculation into one immutable ConfigurationResult. The guards here
// duplicate the wizard's own gating on purpose: the assembler must be safe
// to call outside the wizard (from tests, or a batch import), so it
// re-checks rather than trusting the caller.
//
// The result deep-copies the selection and the calculation; later wizard
// interaction cannot retroactively alter an assembled result.
func AssembleConfiguration(column *catalog.Column, selection catalog.SelectionState, calc *catalog.PowerCalculation) (*catalog.ConfigurationResult, error) {
	if column == nil {
		return nil, fmt.Errorf("refusing to assemble: %w", constants.ErrNoColumnSelected)
	}
	if calc == nil {
		return nil, fmt.Errorf("refusing to assemble: %w", constants.ErrPowerBudgetAbsent)
	}
	if !calc.IsValid {
		return nil, fmt.Errorf("refusing to assemble: %w", constants.ErrPowerBudgetInvalid)
	}

	return &catalog.ConfigurationResult{
		ColumnID:        column.ID,
		ColumnReference: column.Reference,
		Pack:            column.Pack,
		HeightMeters:    column.HeightMeters,
		Modules:         selection.Clone(),
		Power:           *calc.Clone(),
	}, nil
}
