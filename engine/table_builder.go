package engine

import "strconv"

// ============================================================================
// TABLE BUILDER — Produces TableData grids for the overview panel
// ============================================================================
// head / full: raw rows, column keys as headers
// describe:    one row per statistic, leading "Stats" label column
// ============================================================================

// BuildRowsTable renders every row of the view as a grid.
func BuildRowsTable(view RecordView, title string) *TableData {
	fields := view.Fields()
	table := &TableData{
		Title:   title,
		Columns: fieldColumns(fields),
		Rows:    make([][]string, 0, view.Len()),
	}
	for i := 0; i < view.Len(); i++ {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = cell(view, i, f)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// BuildHeadTable renders the first n rows of the view.
func BuildHeadTable(view RecordView, n int, title string) *TableData {
	return BuildRowsTable(Head(view, n), title)
}

func fieldColumns(fields []Field) []Column {
	columns := make([]Column, 0, len(fields))
	for _, f := range fields {
		col := Column{Key: f.Key, Label: f.Key, Type: "text", Align: "left"}
		if f.Kind == FieldMeasure {
			col.Type = "number"
			col.Align = "right"
		}
		columns = append(columns, col)
	}
	return columns
}

func cell(view RecordView, i int, f Field) string {
	if f.Kind == FieldMeasure {
		if v, ok := view.Measure(i, f.Key); ok {
			return FormatFloat(v)
		}
		return ""
	}
	s, _ := view.Dimension(i, f.Key)
	return s
}

// ============================================================================
// DESCRIBE TABLE
// ============================================================================

// BuildDescribeTable renders Describe(view) with a leading "Stats" column.
// Categorical rows (unique, top, freq) appear when the view has a dimension,
// numeric rows (mean … max) when it has a measure.
func BuildDescribeTable(view RecordView, title string) *TableData {
	stats := Describe(view)

	columns := []Column{{Key: "stats", Label: "Stats", Type: "text", Align: "left"}}
	columns = append(columns, fieldColumns(view.Fields())...)

	hasDim, hasMeasure := false, false
	for _, st := range stats {
		if st.Kind == FieldMeasure {
			hasMeasure = true
		} else {
			hasDim = true
		}
	}

	type statRow struct {
		label   string
		numeric bool // false = categorical-only row
		value   func(ColumnStats) string
	}
	var rows []statRow
	rows = append(rows, statRow{"count", true, func(s ColumnStats) string { return strconv.Itoa(s.Count) }})
	if hasDim {
		rows = append(rows,
			statRow{"unique", false, func(s ColumnStats) string { return strconv.Itoa(s.Unique) }},
			statRow{"top", false, func(s ColumnStats) string { return s.Top }},
			statRow{"freq", false, func(s ColumnStats) string { return strconv.Itoa(s.Freq) }},
		)
	}
	if hasMeasure {
		rows = append(rows,
			statRow{"mean", true, func(s ColumnStats) string { return FormatStat(s.Mean) }},
			statRow{"std", true, func(s ColumnStats) string { return FormatStat(s.Std) }},
			statRow{"min", true, func(s ColumnStats) string { return FormatStat(s.Min) }},
			statRow{"25%", true, func(s ColumnStats) string { return FormatStat(s.Q1) }},
			statRow{"50%", true, func(s ColumnStats) string { return FormatStat(s.Median) }},
			statRow{"75%", true, func(s ColumnStats) string { return FormatStat(s.Q3) }},
			statRow{"max", true, func(s ColumnStats) string { return FormatStat(s.Max) }},
		)
	}

	table := &TableData{Title: title, Columns: columns}
	for _, r := range rows {
		line := make([]string, 0, len(columns))
		line = append(line, r.label)
		for _, st := range stats {
			switch {
			case r.label == "count":
				line = append(line, r.value(st))
			case r.numeric == (st.Kind == FieldMeasure):
				line = append(line, r.value(st))
			default:
				line = append(line, "")
			}
		}
		table.Rows = append(table.Rows, line)
	}
	return table
}
