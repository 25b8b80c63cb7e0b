package engine

import "errors"

// ============================================================================
// ENGINE TYPES — Gemstone dashboard query layer
// ============================================================================
// Record        generic data row (dimension/measure maps)
// ControlState  what the dashboard controls currently say
// Criteria      filter derived from a ControlState
// ChartConfig   render-ready chart specification
// TableData     render-ready grid
// ============================================================================

// ErrNoData is returned by Execute when it is handed no dataset at all.
// An empty dataset is not an error.
var ErrNoData = errors.New("engine: no dataset")

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A key absent from both maps is a missing value.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// FieldKind says whether a column holds categorical or numeric values.
type FieldKind string

const (
	FieldDimension FieldKind = "dimension"
	FieldMeasure   FieldKind = "measure"
)

// Field is one column of a dataset, in display order.
type Field struct {
	Key  string    `json:"key"`
	Kind FieldKind `json:"kind"`
}

// ============================================================================
// CONTROL STATE — What the UI hands the engine on every interaction
// ============================================================================

// Chart kinds.
const (
	KindHistogram     = "histogram"
	KindAggregateLine = "aggregate-line"
)

// Overview table modes.
const (
	TableHead     = "head"
	TableFull     = "full"
	TableDescribe = "describe"
	TableUniques  = "uniques"
)

// AllValues is the categorical selector value meaning "no constraint".
const AllValues = "all"

// ControlState is the full set of control values for one dashboard refresh.
type ControlState struct {
	PriceRange      *[2]float64 `json:"priceRange,omitempty"` // [low, high); nil = no range
	ColorConstraint string      `json:"colorConstraint"`      // "all" or one category value
	SelectedColumns []string    `json:"selectedColumns"`
	ChartKind       string      `json:"chartKind"` // "histogram", "aggregate-line"
	TableMode       string      `json:"tableMode"` // "head", "full", "describe", "uniques"
}

// ============================================================================
// CRITERIA — Filter value object
// ============================================================================

// NumericRange restricts one numeric column to [Low, High), or [Low, High]
// when InclusiveHigh is set.
type NumericRange struct {
	Column        string  `json:"column"`
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	InclusiveHigh bool    `json:"inclusiveHigh,omitempty"`
}

// Contains reports whether v lies inside the range.
func (r NumericRange) Contains(v float64) bool {
	if v < r.Low {
		return false
	}
	if r.InclusiveHigh {
		return v <= r.High
	}
	return v < r.High
}

// Criteria define which records to include.
// Dimensions keys are column names, values the accepted values.
// OR within a column, AND across columns and with Range. Empty = all.
type Criteria struct {
	Range      *NumericRange       `json:"range,omitempty"`
	Dimensions map[string][]string `json:"dimensions,omitempty"`
}

// IsEmpty returns true if no constraint is set.
func (c Criteria) IsEmpty() bool {
	if c.Range != nil {
		return false
	}
	for _, vals := range c.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT — Everything one dashboard refresh needs
// ============================================================================

// Result bundles the sub-chart, the overview panel and the headline numbers.
type Result struct {
	State    ControlState `json:"state"`
	Chart    *ChartConfig `json:"chart"`
	Overview *Overview    `json:"overview"`
	Summary  *Summary     `json:"summary"`
}

// Overview is the summary panel output. Exactly one of Table and Chart is set,
// except for an unknown mode where both are nil.
type Overview struct {
	Mode  string       `json:"mode"`
	Table *TableData   `json:"table,omitempty"`
	Chart *ChartConfig `json:"chart,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is one bucket of rows sharing a column value.
type Group struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Numeric bool       `json:"numeric"`
	Order   float64    `json:"order"` // numeric group value when Numeric
	Value   float64    `json:"value"` // aggregate of the target measure
	Count   int        `json:"count"`
	View    RecordView `json:"-"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig is a chart specification handed to a renderer.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      Axis          `json:"xAxis"`
	YAxis      Axis          `json:"yAxis"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Background string        `json:"background,omitempty"`
}

// Axis carries the title and an optional fixed display range.
// Max <= Min means auto range; Tick 0 means auto ticks.
type Axis struct {
	Title string  `json:"title"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	Tick  float64 `json:"tick,omitempty"`
}

// Fixed reports whether the axis has an explicit display range.
func (a Axis) Fixed() bool { return a.Max > a.Min }

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Data     []ChartPoint `json:"data"`
	Color    string       `json:"color,omitempty"`
	BinWidth float64      `json:"binWidth,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// ============================================================================
// SUMMARY — headline numbers for the overview
// ============================================================================

// Summary describes the filtered view relative to the whole dataset.
type Summary struct {
	Title    string  `json:"title"`
	Matched  int     `json:"matched"`
	Total    int     `json:"total"`
	Measure  string  `json:"measure"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Headline string  `json:"headline"`
}
