package engine

import "sort"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns the dataset. It reads through this interface.
//
// Implementations:
//   SliceView — wraps []Record (loader output, tests)
//   SubView   — filtered or grouped subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed, read-only access to a dataset.
// The engine calls Dimension/Measure in tight loops; keep implementations fast.
// The second return value is false when the value is missing.
type RecordView interface {
	Len() int
	Dimension(index int, key string) (string, bool)
	Measure(index int, key string) (float64, bool)
	Fields() []Field // ordered columns
}

// FieldOf looks up a column by key.
func FieldOf(view RecordView, key string) (Field, bool) {
	for _, f := range view.Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// DimensionKeys returns categorical column keys in order.
func DimensionKeys(view RecordView) []string {
	return keysOfKind(view, FieldDimension)
}

// MeasureKeys returns numeric column keys in order.
func MeasureKeys(view RecordView) []string {
	return keysOfKind(view, FieldMeasure)
}

func keysOfKind(view RecordView, kind FieldKind) []string {
	var keys []string
	for _, f := range view.Fields() {
		if f.Kind == kind {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	fields  []Field
}

// NewSliceView creates a RecordView from a []Record slice.
// Without explicit fields the columns are discovered from the records:
// first-seen order, keys sorted within each record.
func NewSliceView(records []Record, fields ...Field) RecordView {
	v := &SliceView{records: records, fields: fields}
	if len(v.fields) == 0 {
		v.discoverFields()
	}
	return v
}

func (v *SliceView) discoverFields() {
	seen := make(map[string]bool)
	for _, r := range v.records {
		for _, k := range sortedKeys(r.Dimensions) {
			if !seen[k] {
				seen[k] = true
				v.fields = append(v.fields, Field{Key: k, Kind: FieldDimension})
			}
		}
		for _, k := range sortedKeys(r.Measures) {
			if !seen[k] {
				seen[k] = true
				v.fields = append(v.fields, Field{Key: k, Kind: FieldMeasure})
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.records) {
		return "", false
	}
	s, ok := v.records[i].Dimensions[key]
	return s, ok
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	f, ok := v.records[i].Measures[key]
	return f, ok
}

func (v *SliceView) Fields() []Field { return v.fields }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView, in parent order.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

// newSubView flattens nested sub-views so lookups stay one hop deep.
func newSubView(parent RecordView, indices []int) RecordView {
	if sv, ok := parent.(*SubView); ok {
		mapped := make([]int, len(indices))
		for i, idx := range indices {
			mapped[i] = sv.indices[idx]
		}
		return &SubView{parent: sv.parent, indices: mapped}
	}
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.indices) {
		return "", false
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) Fields() []Field { return v.parent.Fields() }

// Head returns a view of the first n rows.
func Head(view RecordView, n int) RecordView {
	if n < 0 || n >= view.Len() {
		return view
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return newSubView(view, indices)
}
