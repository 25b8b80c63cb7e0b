package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// ============================================================================
// CSV EXPORT — chart and table data ready for Sheets/Excel
// ============================================================================

// ChartCSV writes chart data as CSV.
// Single series → two columns (x title, y title). Several series use a long
// layout (series, label, value) since each series has its own labels.
func ChartCSV(w io.Writer, spec *engine.ChartConfig) error {
	cw := csv.NewWriter(w)

	xLabel, yLabel := "Label", "Value"
	if spec != nil {
		if spec.XAxis.Title != "" && len(spec.Series) == 1 {
			xLabel = spec.XAxis.Title
		}
		if spec.YAxis.Title != "" {
			yLabel = spec.YAxis.Title
		}
	}

	switch {
	case spec == nil || len(spec.Series) == 0:
		cw.Write([]string{xLabel, yLabel})
	case len(spec.Series) == 1:
		cw.Write([]string{xLabel, yLabel})
		for _, d := range spec.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
	default:
		cw.Write([]string{"Series", xLabel, yLabel})
		for _, s := range spec.Series {
			for _, d := range s.Data {
				cw.Write([]string{s.Name, d.Label, fmtNum(d.Value)})
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write chart csv: %w", err)
	}
	return nil
}

// TableCSV writes the table header and rows as CSV.
func TableCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)
	if t != nil {
		cw.Write(t.Headers())
		for _, row := range t.Rows {
			cw.Write(row)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write table csv: %w", err)
	}
	return nil
}

// fmtNum renders whole numbers without decimals and everything else with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
