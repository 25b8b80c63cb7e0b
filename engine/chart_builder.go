package engine

import "strings"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a view + selected columns
// ============================================================================
// Distribution mode:   one binned-count series per column
// Aggregate-line mode: one mean-per-group series per column
// Both return the base layout with zero series for an empty selection.
// ============================================================================

const chartBackground = "#F9F9F9"

// BuildHistogramChart produces one histogram series per column.
func BuildHistogramChart(view RecordView, columns []string, opts ...Option) *ChartConfig {
	return buildHistogramChart(view, columns, applyOptions(opts))
}

// BuildAggregateChart produces one mean-aggregate series per column.
func BuildAggregateChart(view RecordView, columns []string, opts ...Option) *ChartConfig {
	return buildAggregateChart(view, columns, applyOptions(opts))
}

// baseChart is the layout every chart starts from.
func baseChart(kind string, cfg *config) *ChartConfig {
	return &ChartConfig{
		ChartType:  kind,
		Title:      cfg.Title,
		Series:     []ChartSeries{},
		ShowLegend: true,
		ShowGrid:   true,
		Background: chartBackground,
	}
}

func buildHistogramChart(view RecordView, columns []string, cfg *config) *ChartConfig {
	chart := baseChart(KindHistogram, cfg)
	chart.YAxis = cfg.CountAxis
	if len(columns) == 0 {
		return chart
	}
	chart.XAxis = Axis{Title: strings.Join(columns, ", ")}

	colors := cfg.Palette.Colors(len(columns))
	for i, col := range columns {
		var s ChartSeries
		if f, ok := FieldOf(view, col); ok && f.Kind == FieldDimension {
			s = categoricalSeries(view, col)
		} else {
			s = binnedSeries(view, col, cfg.Bins)
		}
		s.Color = colors[i]
		chart.Series = append(chart.Series, s)
	}
	chart.Colors = colors
	return chart
}

func binnedSeries(view RecordView, column string, bins int) ChartSeries {
	s := ChartSeries{Name: column, Kind: KindHistogram, Data: []ChartPoint{}}
	hist := Histogram(MeasureValues(view, column), bins)
	if len(hist) > 0 {
		s.BinWidth = hist[0].High - hist[0].Low
	}
	for _, b := range hist {
		s.Data = append(s.Data, ChartPoint{
			Label: b.Label(),
			X:     b.Low,
			Value: float64(b.Count),
		})
	}
	return s
}

func categoricalSeries(view RecordView, column string) ChartSeries {
	s := ChartSeries{Name: column, Kind: KindHistogram, Data: []ChartPoint{}}
	for i, g := range ValueCounts(view, column) {
		s.Data = append(s.Data, ChartPoint{
			Label: g.Label,
			X:     float64(i),
			Value: float64(g.Count),
		})
	}
	return s
}

func buildAggregateChart(view RecordView, columns []string, cfg *config) *ChartConfig {
	chart := baseChart(KindAggregateLine, cfg)
	chart.YAxis = Axis{Title: MeanLabel(cfg.TargetMeasure)}
	if len(columns) == 0 {
		return chart
	}
	chart.XAxis = Axis{Title: strings.Join(columns, ", ")}

	colors := cfg.Palette.Colors(len(columns))
	for i, col := range columns {
		s := ChartSeries{Name: col, Kind: KindAggregateLine, Color: colors[i], Data: []ChartPoint{}}
		groups := GroupAndAggregate(view, col, cfg.TargetMeasure)
		pos := 0
		for _, g := range groups {
			// a group with no target values has no mean to plot
			if CountMeasure(g.View, cfg.TargetMeasure) == 0 {
				continue
			}
			x := float64(pos)
			if g.Numeric {
				x = g.Order
			}
			s.Data = append(s.Data, ChartPoint{Label: g.Label, X: x, Value: g.Value})
			pos++
		}
		chart.Series = append(chart.Series, s)
	}
	chart.Colors = colors
	return chart
}
