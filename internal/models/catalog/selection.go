package catalog

// SelectionState holds the wizard's chosen module per accessory category:
// at most one module id per category, absent when nothing is selected.
type SelectionState map[Category]string

// NewSelectionState returns an empty selection.
func NewSelectionState() SelectionState {
	return make(SelectionState, NumCategories)
}

// Set fills the slot for the category. An empty module id clears it.
func (s SelectionState) Set(c Category, moduleID string) {
	if moduleID == "" {
		delete(s, c)
		return
	}
	s[c] = moduleID
}

// Clear empties the slot for the category.
func (s SelectionState) Clear(c Category) {
	delete(s, c)
}

// Get returns the selected module id for the category, or "" when the slot
// is empty.
func (s SelectionState) Get(c Category) string {
	return s[c]
}

// IsEmpty reports whether no slot is filled.
func (s SelectionState) IsEmpty() bool {
	return len(s) == 0
}

// HasPowerSource reports whether an electrical panel or fuse box is
// selected. Forward progression past module selection requires this.
func (s SelectionState) HasPowerSource() bool {
	return s[CategoryElectricalPanel] != "" || s[CategoryFuseBox] != ""
}

// Clone returns an independent copy of the selection.
func (s SelectionState) Clone() SelectionState {
	out := make(SelectionState, len(s))
	for c, id := range s {
		out[c] = id
	}
	return out
}

// ModuleIDs returns the selected module ids in stable category order.
func (s SelectionState) ModuleIDs() []string {
	out := make([]string, 0, len(s))
	for i := 0; i < NumCategories; i++ {
		if id, ok := s[Category(i)]; ok {
			out = append(out, id)
		}
	}
	return out
}
