package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// TableText draws the table as a bordered text grid, title first.
func TableText(w io.Writer, t *engine.TableData) error {
	if t == nil {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	if t.Title != "" {
		if _, err := fmt.Fprintln(w, t.Title); err != nil {
			return err
		}
	}

	output := tablewriter.NewWriter(w)
	output.SetAutoFormatHeaders(false)
	output.SetHeader(t.Headers())

	aligns := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		if c.Align == "right" {
			aligns[i] = tablewriter.ALIGN_RIGHT
		} else {
			aligns[i] = tablewriter.ALIGN_LEFT
		}
	}
	output.SetColumnAlignment(aligns)

	for _, row := range t.Rows {
		output.Append(row)
	}
	output.Render()
	return nil
}

// ChartText draws the chart data points as a grid, one row per point.
func ChartText(w io.Writer, spec *engine.ChartConfig) error {
	if spec == nil {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	if _, err := fmt.Fprintf(w, "%s (%s)\n", spec.Title, spec.ChartType); err != nil {
		return err
	}

	yLabel := spec.YAxis.Title
	if yLabel == "" {
		yLabel = "Value"
	}
	output := tablewriter.NewWriter(w)
	output.SetAutoFormatHeaders(false)
	output.SetHeader([]string{"Series", "Label", yLabel})
	output.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, s := range spec.Series {
		for _, p := range s.Data {
			output.Append([]string{s.Name, p.Label, fmtNum(p.Value)})
		}
	}
	output.Render()
	return nil
}
