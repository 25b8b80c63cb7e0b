package schema

import (
	"testing"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// First rows of the diamonds dataset, with its unnamed index column.
var diamondsCSV = []byte(`,carat,cut,color,clarity,depth,table,price,x,y,z
1,0.23,Ideal,E,SI2,61.5,55,326,3.95,3.98,2.43
2,0.21,Premium,E,SI1,59.8,61,326,3.89,3.84,2.31
3,0.23,Good,E,VS1,56.9,65,327,4.05,4.07,2.31
4,0.29,Premium,I,VS2,62.4,58,334,4.2,4.23,2.63
5,0.31,Good,J,SI2,63.3,58,335,4.34,4.35,2.75
6,0.24,Very Good,J,VVS2,62.8,57,336,3.94,3.96,2.48
7,0.24,Very Good,I,VVS1,62.3,57,336,3.95,3.98,2.47
8,0.26,Very Good,H,SI1,61.9,55,337,4.07,4.11,2.53
9,0.22,Fair,E,VS2,65.1,61,337,3.87,3.78,2.49
10,0.23,Very Good,H,VS1,59.4,61,338,4,4.05,2.39
`)

func TestDiscoverDiamondsCSV(t *testing.T) {
	config, err := DiscoverFromCSV(diamondsCSV, DiscoverOptions{Name: "Diamonds"})
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	if config.Name != "Diamonds" || config.DiscoveredFrom != "CSV" {
		t.Errorf("unexpected metadata: name=%q from=%q", config.Name, config.DiscoveredFrom)
	}

	dimKeys := config.DimensionKeys()
	assertContains(t, dimKeys, "cut", "cut should be a dimension")
	assertContains(t, dimKeys, "color", "color should be a dimension")
	assertContains(t, dimKeys, "clarity", "clarity should be a dimension")

	measKeys := config.MeasureKeys()
	for _, key := range []string{"column_1", "carat", "depth", "table", "price", "x", "y", "z"} {
		assertContains(t, measKeys, key, key+" should be a measure")
	}

	if len(config.Columns) != 11 {
		t.Fatalf("expected 11 columns, got %d: %v", len(config.Columns), config.Columns)
	}
	if config.Columns[0] != "column_1" || config.Columns[7] != "price" {
		t.Errorf("columns should keep file order, got %v", config.Columns)
	}

	color, ok := config.Dimension("color")
	if !ok {
		t.Fatal("color dimension missing")
	}
	if color.UniqueCount != 4 || color.CardinalityHint != "low" {
		t.Errorf("unexpected color stats: %+v", color)
	}
	if color.SampleValues[0] != "E" {
		t.Errorf("samples should be sorted, got %v", color.SampleValues)
	}

	carat, _ := config.Measure("carat")
	if !carat.HasDecimals {
		t.Error("carat should have decimals")
	}
	price, _ := config.Measure("price")
	if price.HasDecimals {
		t.Error("price should not have decimals")
	}
}

func TestDiscoverKeepsEveryColumn(t *testing.T) {
	headers := []string{"Notes", "Weight"}
	rows := [][]string{
		{"first", "1"},
		{"second", ""},
		{"third", "3"},
	}
	config, err := DiscoverFromRows(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(config.Dimensions) != 1 || len(config.Measures) != 1 {
		t.Fatalf("expected 1 dimension and 1 measure, got %v / %v", config.DimensionKeys(), config.MeasureKeys())
	}
	weight, _ := config.Measure("weight")
	if weight.NullCount != 1 {
		t.Errorf("expected 1 null weight, got %d", weight.NullCount)
	}
}

func TestDiscoverNumericThreshold(t *testing.T) {
	// 4 of 5 numeric → measure; 3 of 5 → dimension.
	headers := []string{"mostly", "half"}
	rows := [][]string{
		{"1", "1"},
		{"2", "2"},
		{"3", "3"},
		{"4", "d"},
		{"e", "e"},
	}
	config, err := DiscoverFromRows(headers, rows)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, config.MeasureKeys(), "mostly", "80% numeric column")
	assertContains(t, config.DimensionKeys(), "half", "60% numeric column")
}

func TestDiscoverErrors(t *testing.T) {
	if _, err := DiscoverFromRows(nil, [][]string{{"1"}}); err == nil {
		t.Error("expected error for no columns")
	}
	if _, err := DiscoverFromRows([]string{"a"}, nil); err == nil {
		t.Error("expected error for no rows")
	}
	if _, err := DiscoverFromCSV(nil); err == nil {
		t.Error("expected error for empty CSV")
	}
}

func TestFieldsFollowColumnOrder(t *testing.T) {
	config, err := DiscoverFromCSV(diamondsCSV)
	if err != nil {
		t.Fatal(err)
	}
	config.AddDerivedMeasure("volume", []string{"x", "y", "z"})

	fields := config.Fields()
	if len(fields) != 12 {
		t.Fatalf("expected 12 fields, got %d", len(fields))
	}
	if fields[2].Key != "cut" || fields[2].Kind != "dimension" {
		t.Errorf("unexpected field 2: %+v", fields[2])
	}
	last := fields[len(fields)-1]
	if last.Key != "volume" || last.Kind != "measure" {
		t.Errorf("derived column should come last, got %+v", last)
	}
}

// ============================================================================
// KEY + CELL UTILITIES
// ============================================================================

func TestColumnKeys(t *testing.T) {
	got := ColumnKeys([]string{"Price", "price", "", "Unnamed: 0", "Table %"})
	want := []string{"price", "price_2", "column_3", "unnamed_0", "table_%"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ColumnKeys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"Issue Key", "issue_key"},
		{"storyPoints", "story_points"},
		{"clarity", "clarity"},
		{"Time-Spent", "time_spent"},
		{"x.y", "x_y"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.input); got != tt.expected {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"carat", "Carat"},
		{"price_per_carat", "Price Per Carat"},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := toDisplayName(tt.input); got != tt.expected {
			t.Errorf("toDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"326", 326, true},
		{"0.23", 0.23, true},
		{"-1.5", -1.5, true},
		{"$1,234.50", 1234.5, true},
		{"-$20", -20, true},
		{"Ideal", 0, false},
		{"NaN", 0, false},
		{"NAN", 0, false},
		{"inf", 0, false},
		{"-inf", 0, false},
		{"Infinity", 0, false},
		{"+Inf", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
