package schema

import (
	"math"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// ============================================================================
// CONTROLS — Metadata the dashboard page needs to draw its widgets
// ============================================================================
// Derived once from the loaded dataset: slider bounds, radio options, the
// pickable numeric columns and the fixed lists of chart kinds / table modes.
// ============================================================================

// Controls describes every dashboard widget.
type Controls struct {
	RangeColumn     string   `json:"rangeColumn"`
	RangeMin        float64  `json:"rangeMin"`
	RangeMax        float64  `json:"rangeMax"`
	CategoryColumn  string   `json:"categoryColumn"`
	CategoryOptions []string `json:"categoryOptions"` // "all" first
	Columns         []string `json:"columns"`         // numeric columns
	DefaultColumns  []string `json:"defaultColumns"`
	ChartKinds      []string `json:"chartKinds"`
	TableModes      []string `json:"tableModes"`
}

// ChartKinds lists the supported chart kinds in display order.
var ChartKinds = []string{engine.KindHistogram, engine.KindAggregateLine}

// TableModes lists the supported overview modes in display order.
var TableModes = []string{engine.TableHead, engine.TableFull, engine.TableDescribe, engine.TableUniques}

// BuildControls derives widget metadata from the source view.
// A missing range column leaves the slider at [0, 0].
func BuildControls(view engine.RecordView, rangeColumn, categoryColumn string) Controls {
	c := Controls{
		RangeColumn:     rangeColumn,
		CategoryColumn:  categoryColumn,
		CategoryOptions: append([]string{engine.AllValues}, engine.UniqueValues(view, categoryColumn)...),
		Columns:         engine.MeasureKeys(view),
		ChartKinds:      append([]string(nil), ChartKinds...),
		TableModes:      append([]string(nil), TableModes...),
	}
	if c.Columns == nil {
		c.Columns = []string{}
	}

	if lo, hi, ok := engine.MeasureBounds(view, rangeColumn); ok {
		c.RangeMin = math.Floor(lo)
		c.RangeMax = math.Ceil(hi)
	}

	if _, ok := engine.FieldOf(view, rangeColumn); ok {
		c.DefaultColumns = []string{rangeColumn}
	} else if len(c.Columns) > 0 {
		c.DefaultColumns = []string{c.Columns[0]}
	} else {
		c.DefaultColumns = []string{}
	}
	return c
}

// DefaultState is the control state the page starts with: the full range,
// no category constraint, the default column, a histogram and the head grid.
func (c Controls) DefaultState() engine.ControlState {
	return engine.ControlState{
		PriceRange:      &[2]float64{c.RangeMin, c.RangeMax},
		ColorConstraint: engine.AllValues,
		SelectedColumns: append([]string(nil), c.DefaultColumns...),
		ChartKind:       engine.KindHistogram,
		TableMode:       engine.TableHead,
	}
}
