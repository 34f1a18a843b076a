package services

import (
	"context"
	"fmt"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/models/catalog"
)

// CompatibilityResolver answers category-level compatibility questions for
// a column. It is a pure projection over loaded catalog data: the column's
// capability flags gate the categories, the directory supplies the
// pre-scoped module lists.
type CompatibilityResolver struct {
	directory CatalogDirectory
}

func NewCompatibilityResolver(directory CatalogDirectory) *CompatibilityResolver {
	return &CompatibilityResolver{directory: directory}
}

// CompatibleCategories returns exactly the categories whose compatibility
// flag is set on the column, in stable order.
func (r *CompatibilityResolver) CompatibleCategories(column catalog.Column) []catalog.Category {
	return column.Compatibility.Categories()
}

// ValidateSelection checks that moduleID may fill the category slot of the
// column: the category must be gated in by the column's capability flags
// and the module must appear in the column's loaded list for that category.
func (r *CompatibilityResolver) ValidateSelection(column catalog.Column, set catalog.ModuleSet, category catalog.Category, moduleID string) error {
	if !category.Valid() {
		return fmt.Errorf("invalid category %d", int(category))
	}
	if !column.Compatibility.Has(category) {
		return fmt.Errorf("%w: column %s, category %s", constants.ErrCategoryNotSupported, column.Reference, category)
	}
	for _, module := range set[category] {
		if module.ID == moduleID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not compatible with column %s in category %s",
		constants.ErrUnknownModule, moduleID, column.ID, category)
}

// ModulesFor returns the ordered module list for one category of one
// column. Calling it for a category the column does not support is a
// caller bug and fails loudly rather than returning an empty list.
func (r *CompatibilityResolver) ModulesFor(ctx context.Context, column catalog.Column, category catalog.Category) ([]catalog.Module, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(category))
	}
	if !column.Compatibility.Has(category) {
		return nil, fmt.Errorf("%w: column %s, category %s", constants.ErrCategoryNotSupported, column.Reference, category)
	}

	set, err := r.directory.CompatibleModules(ctx, column.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules for column %s: %w", column.ID, err)
	}

	return set[category], nil
}
