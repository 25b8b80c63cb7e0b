package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// ============================================================================
// XLSX EXPORT — excelize workbooks
// ============================================================================
// Numeric cells of "number" columns are written as numbers so the sheet
// can be charted directly; everything else is written as text.
// ============================================================================

const defaultSheet = "Sheet1"

// TableXLSX writes the table as a single-sheet workbook.
func TableXLSX(w io.Writer, t *engine.TableData) error {
	if t == nil {
		t = &engine.TableData{}
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, toCells(t.Headers(), nil)); err != nil {
		return err
	}
	for r, row := range t.Rows {
		if err := setRow(f, sheet, r+2, toCells(row, t.Columns)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ChartXLSX writes the chart points in long layout: series, label, x, value.
func ChartXLSX(w io.Writer, spec *engine.ChartConfig) error {
	if spec == nil {
		spec = &engine.ChartConfig{}
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(spec.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	yLabel := spec.YAxis.Title
	if yLabel == "" {
		yLabel = "Value"
	}
	if err := setRow(f, sheet, 1, []interface{}{"Series", "Label", "X", yLabel}); err != nil {
		return err
	}
	r := 2
	for _, s := range spec.Series {
		for _, p := range s.Data {
			if err := setRow(f, sheet, r, []interface{}{s.Name, p.Label, p.X, p.Value}); err != nil {
				return err
			}
			r++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toCells(row []string, columns []engine.Column) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
		if i < len(columns) && columns[i].Type == "number" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				cells[i] = f
			}
		}
	}
	return cells
}

// sheetName makes a title safe for an Excel sheet name (max 31 chars,
// no []:*?/\).
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return defaultSheet
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
