package engine

// ============================================================================
// FILTERS — Range + categorical filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all criteria, in source order.
// Dimension values must match exactly. A row missing the range column never
// matches a range. Empty criteria = no restriction (returns original view).
func ApplyFilters(view RecordView, c Criteria) RecordView {
	if c.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range c.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, c.Range, sets) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func matches(view RecordView, i int, r *NumericRange, sets map[string]map[string]bool) bool {
	if r != nil {
		v, ok := view.Measure(i, r.Column)
		if !ok || !r.Contains(v) {
			return false
		}
	}
	for dim, set := range sets {
		val, ok := view.Dimension(i, dim)
		if !ok || !set[val] {
			return false
		}
	}
	return true
}

// CriteriaFromState maps dashboard controls onto filter criteria using the
// configured range and category columns.
func CriteriaFromState(state ControlState, opts ...Option) Criteria {
	return criteriaFromState(state, applyOptions(opts))
}

func criteriaFromState(state ControlState, cfg *config) Criteria {
	var c Criteria
	if state.PriceRange != nil {
		c.Range = &NumericRange{
			Column:        cfg.RangeColumn,
			Low:           state.PriceRange[0],
			High:          state.PriceRange[1],
			InclusiveHigh: cfg.InclusiveHigh,
		}
	}
	if state.ColorConstraint != "" && state.ColorConstraint != AllValues {
		c.Dimensions = map[string][]string{
			cfg.CategoryColumn: {state.ColorConstraint},
		}
	}
	return c
}

// toSet converts a string slice to a lookup set.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
