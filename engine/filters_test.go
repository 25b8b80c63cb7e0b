package engine

import (
	"math/rand"
	"testing"
)

// ============================================================================
// FIXTURES
// ============================================================================

func gem(price float64, color string) Record {
	return Record{
		Dimensions: map[string]string{"color": color},
		Measures:   map[string]float64{"price": price},
	}
}

var gemFields = []Field{
	{Key: "color", Kind: FieldDimension},
	{Key: "price", Kind: FieldMeasure},
}

func gemView(records ...Record) RecordView {
	return NewSliceView(records, gemFields...)
}

// prices lists the price column of a view in row order.
func prices(view RecordView) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		v, _ := view.Measure(i, "price")
		out = append(out, v)
	}
	return out
}

func randomGems(n int, seed int64) RecordView {
	rng := rand.New(rand.NewSource(seed))
	colors := []string{"D", "E", "F", "G", "H", "I", "J"}
	records := make([]Record, n)
	for i := range records {
		records[i] = gem(float64(300+rng.Intn(18000)), colors[rng.Intn(len(colors))])
	}
	return gemView(records...)
}

// ============================================================================
// RANGE + CATEGORY FILTERING
// ============================================================================

func TestApplyFiltersHalfOpenRange(t *testing.T) {
	view := gemView(gem(100, "D"), gem(500, "E"), gem(900, "D"), gem(899.5, "F"))

	got := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 100, High: 900}})
	want := []float64{100, 500, 899.5}

	assertFloats(t, prices(got), want)
}

func TestApplyFiltersInclusiveHigh(t *testing.T) {
	view := gemView(gem(100, "D"), gem(500, "E"), gem(900, "D"))

	got := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 100, High: 900, InclusiveHigh: true}})
	assertFloats(t, prices(got), []float64{100, 500, 900})
}

func TestApplyFiltersCategoryExactMatch(t *testing.T) {
	view := gemView(gem(100, "D"), gem(200, "d"), gem(300, "E"))

	got := ApplyFilters(view, Criteria{Dimensions: map[string][]string{"color": {"D"}}})
	assertFloats(t, prices(got), []float64{100})
}

func TestApplyFiltersMissingRangeColumnExcluded(t *testing.T) {
	view := gemView(
		gem(100, "D"),
		Record{Dimensions: map[string]string{"color": "D"}},
	)
	got := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 0, High: 1000}})
	if got.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", got.Len())
	}
}

func TestApplyFiltersEmptyCriteriaReturnsSource(t *testing.T) {
	view := gemView(gem(1, "D"))
	if got := ApplyFilters(view, Criteria{}); got != view {
		t.Error("empty criteria should return the source view unchanged")
	}
}

func TestApplyFiltersInvertedRangeIsEmpty(t *testing.T) {
	view := gemView(gem(100, "D"), gem(500, "E"))
	got := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 600, High: 100}})
	if got.Len() != 0 {
		t.Errorf("expected empty result, got %d rows", got.Len())
	}
}

// ============================================================================
// PROPERTIES
// ============================================================================

func TestApplyFiltersRangeMembershipProperty(t *testing.T) {
	view := randomGems(500, 7)
	lo, hi := 2000.0, 9000.0

	got := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: lo, High: hi}})
	if got.Len() > view.Len() {
		t.Fatalf("filtered view larger than source: %d > %d", got.Len(), view.Len())
	}

	want := 0
	for _, p := range prices(view) {
		if lo <= p && p < hi {
			want++
		}
	}
	if got.Len() != want {
		t.Errorf("expected %d rows in [%v, %v), got %d", want, lo, hi, got.Len())
	}
	for _, p := range prices(got) {
		if p < lo || p >= hi {
			t.Errorf("price %v outside [%v, %v)", p, lo, hi)
		}
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	view := randomGems(300, 11)
	c := Criteria{
		Range:      &NumericRange{Column: "price", Low: 1000, High: 12000},
		Dimensions: map[string][]string{"color": {"G"}},
	}

	once := ApplyFilters(view, c)
	twice := ApplyFilters(once, c)

	assertFloats(t, prices(twice), prices(once))
}

func TestApplyFiltersNarrowingShrinks(t *testing.T) {
	view := randomGems(400, 3)

	wide := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 500, High: 15000, InclusiveHigh: true}})
	narrow := ApplyFilters(view, Criteria{Range: &NumericRange{Column: "price", Low: 2500, High: 9000}})

	if narrow.Len() > wide.Len() {
		t.Fatalf("narrow range returned more rows (%d) than wide (%d)", narrow.Len(), wide.Len())
	}
	inWide := make(map[float64]int)
	for _, p := range prices(wide) {
		inWide[p]++
	}
	for _, p := range prices(narrow) {
		if inWide[p] == 0 {
			t.Errorf("price %v in narrow result but not in wide result", p)
		}
		inWide[p]--
	}
}

func TestCriteriaFromState(t *testing.T) {
	c := CriteriaFromState(ControlState{PriceRange: &[2]float64{10, 20}, ColorConstraint: "all"})
	if c.Range == nil || c.Range.Column != "price" || c.Range.Low != 10 || c.Range.High != 20 {
		t.Errorf("unexpected range: %+v", c.Range)
	}
	if len(c.Dimensions["color"]) > 0 {
		t.Error("\"all\" should not constrain color")
	}

	c = CriteriaFromState(ControlState{ColorConstraint: "J"}, WithCategoryColumn("cut"), WithInclusiveUpperBound(true))
	if c.Range != nil {
		t.Error("nil price range should not set a range")
	}
	if got := c.Dimensions["cut"]; len(got) != 1 || got[0] != "J" {
		t.Errorf("expected cut=J constraint, got %+v", c.Dimensions)
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
