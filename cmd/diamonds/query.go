package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/render"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/schema"
)

// ============================================================================
// ONE-SHOT QUERIES — the dashboard controls as flags
// ============================================================================
// Formats:
//   json    Full JSON output (default)
//   pretty  Pretty-printed JSON
//   text    Human-readable grid
//   csv     Chart/table data as CSV (ready for Sheets/Excel)
//   xlsx    Excel workbook
//   png     Rendered chart image (charts only)
// ============================================================================

type outputFlags struct {
	format string
	out    string
}

func (o *outputFlags) register(cmd *cobra.Command, formats string) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "json", "Output format: "+formats)
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write output to file instead of stdout")
}

// write sends the output to --out or the command's stdout.
func (o *outputFlags) write(cmd *cobra.Command, logger *zap.Logger, fn func(io.Writer) error) error {
	if o.out == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("output written", zap.String("path", o.out), zap.String("format", o.format))
	return nil
}

func writeJSON(w io.Writer, v any, format string) error {
	var (
		out []byte
		err error
	)
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// CHART
// ============================================================================

type chartFlags struct {
	priceMin float64
	priceMax float64
	color    string
	columns  []string
	kind     string
	output   outputFlags
}

func newChartCmd(a *app) *cobra.Command {
	f := &chartFlags{}
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute the filtered sub-chart",
		Long: `Filters the dataset by the price range and color, then charts the selected
columns. Without --price-min/--price-max no range constraint applies; with
only one of them the other takes the dataset bound. The upper bound is
exclusive unless the config sets dashboard.inclusive_high.

Examples:
  diamonds chart --price-min 326 --price-max 5000 --color E --columns price,carat
  diamonds chart --kind aggregate-line --columns carat --format csv --out carat.csv
  diamonds chart --columns depth --format png --out depth.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChart(cmd, f)
		},
	}
	cmd.Flags().Float64Var(&f.priceMin, "price-min", 0, "Lower bound of the price range")
	cmd.Flags().Float64Var(&f.priceMax, "price-max", 0, "Upper bound of the price range")
	cmd.Flags().StringVar(&f.color, "color", engine.AllValues, `Color to keep ("all" for every color)`)
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Columns to chart (default: the price column)")
	cmd.Flags().StringVar(&f.kind, "kind", engine.KindHistogram, "Chart kind: histogram, aggregate-line")
	f.output.register(cmd, "json, pretty, text, csv, xlsx, png")
	return cmd
}

func (a *app) runChart(cmd *cobra.Command, f *chartFlags) error {
	ds, err := a.load()
	if err != nil {
		return err
	}
	view := ds.View()
	opts := append(a.cfg.EngineOptions(), engine.WithLogger(a.logger))

	controls := schema.BuildControls(view, a.cfg.Dashboard.RangeColumn, a.cfg.Dashboard.CategoryColumn)
	state := controls.DefaultState()
	state.PriceRange = nil
	state.ColorConstraint = f.color
	state.ChartKind = f.kind
	if cmd.Flags().Changed("columns") {
		state.SelectedColumns = f.columns
	}
	if minSet, maxSet := cmd.Flags().Changed("price-min"), cmd.Flags().Changed("price-max"); minSet || maxSet {
		lo, hi := controls.RangeMin, controls.RangeMax
		if minSet {
			lo = f.priceMin
		}
		if maxSet {
			hi = f.priceMax
		}
		state.PriceRange = &[2]float64{lo, hi}
	}

	state = engine.NormalizeControlState(state, view, opts...)
	chart := engine.ComputeChart(state, view, opts...)
	return a.writeChart(cmd, &f.output, chart)
}

func (a *app) writeChart(cmd *cobra.Command, o *outputFlags, chart *engine.ChartConfig) error {
	size := render.Size{Width: a.cfg.Server.ChartWidth, Height: a.cfg.Server.ChartHeight}
	return o.write(cmd, a.logger, func(w io.Writer) error {
		switch o.format {
		case "json", "pretty":
			return writeJSON(w, chart, o.format)
		case "text":
			return render.ChartText(w, chart)
		case "csv":
			return render.ChartCSV(w, chart)
		case "xlsx":
			return render.ChartXLSX(w, chart)
		case "png":
			return render.ChartPNG(w, chart, size, render.WithLogger(a.logger))
		default:
			return fmt.Errorf("unknown format %q", o.format)
		}
	})
}

// ============================================================================
// TABLE
// ============================================================================

type tableFlags struct {
	mode    string
	columns []string
	output  outputFlags
}

func newTableCmd(a *app) *cobra.Command {
	f := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Compute the overview panel over the whole dataset",
		Long: `Builds the overview panel. It never applies the range or color filter.

Modes:
  head      First rows of the dataset
  full      Every row
  describe  Summary statistics per column
  uniques   Value-count chart of the selected columns

Examples:
  diamonds table --mode describe --format text
  diamonds table --mode full --format xlsx --out diamonds.xlsx
  diamonds table --mode uniques --columns color --format png --out colors.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTable(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.mode, "mode", engine.TableHead, "Overview mode: head, full, describe, uniques")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Columns for the uniques chart (default: the price column)")
	f.output.register(cmd, "json, pretty, text, csv, xlsx (png for uniques)")
	return cmd
}

func (a *app) runTable(cmd *cobra.Command, f *tableFlags) error {
	ds, err := a.load()
	if err != nil {
		return err
	}
	view := ds.View()
	opts := append(a.cfg.EngineOptions(), engine.WithLogger(a.logger))

	columns := f.columns
	if !cmd.Flags().Changed("columns") {
		columns = schema.BuildControls(view, a.cfg.Dashboard.RangeColumn, a.cfg.Dashboard.CategoryColumn).DefaultColumns
	}
	state := engine.NormalizeControlState(engine.ControlState{SelectedColumns: columns, TableMode: f.mode}, view, opts...)

	ov := engine.ComputeOverview(state.TableMode, state.SelectedColumns, view, opts...)
	if ov.Chart != nil {
		return a.writeChart(cmd, &f.output, ov.Chart)
	}
	if ov.Table == nil {
		return fmt.Errorf("unknown table mode %q", f.mode)
	}

	return f.output.write(cmd, a.logger, func(w io.Writer) error {
		switch f.output.format {
		case "json", "pretty":
			return writeJSON(w, ov, f.output.format)
		case "text":
			return render.TableText(w, ov.Table)
		case "csv":
			return render.TableCSV(w, ov.Table)
		case "xlsx":
			return render.TableXLSX(w, ov.Table)
		default:
			return fmt.Errorf("unknown format %q for a table", f.output.format)
		}
	})
}

// ============================================================================
// SCHEMA
// ============================================================================

type schemaOutput struct {
	Schema   *schema.Config  `json:"schema"`
	Controls schema.Controls `json:"controls"`
}

func newSchemaCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the detected columns and control metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load()
			if err != nil {
				return err
			}
			out := schemaOutput{
				Schema:   ds.Schema(),
				Controls: schema.BuildControls(ds.View(), a.cfg.Dashboard.RangeColumn, a.cfg.Dashboard.CategoryColumn),
			}
			return writeJSON(cmd.OutOrStdout(), out, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "Output format: json, pretty")
	return cmd
}
