package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Dispatcher for one dashboard refresh
// ============================================================================
// Pipeline:
//   1. Criteria from ControlState
//   2. Filter the source view → SubView (always from the source, never from
//      a previous result)
//   3. Dispatch to the chart builder for the requested kind
//   4. Overview panel from the *unfiltered* source view
//
// Every control combination has a defined output; nothing here fails on
// malformed controls.
// ============================================================================

// ComputeChart filters view by the control state and builds the sub-chart.
// Unknown chart kinds and empty selections yield a chart with zero series.
func ComputeChart(state ControlState, view RecordView, opts ...Option) *ChartConfig {
	return computeChart(state, view, applyOptions(opts))
}

func computeChart(state ControlState, view RecordView, cfg *config) *ChartConfig {
	filtered := ApplyFilters(view, criteriaFromState(state, cfg))

	cfg.Logger.Debug("chart computed from filtered view",
		zap.Int("records", view.Len()),
		zap.Int("matched", filtered.Len()),
		zap.String("kind", state.ChartKind),
		zap.Strings("columns", state.SelectedColumns))

	return chartFor(state, filtered, cfg)
}

// chartFor dispatches on the chart kind over an already filtered view.
func chartFor(state ControlState, filtered RecordView, cfg *config) *ChartConfig {
	switch state.ChartKind {
	case KindHistogram:
		return buildHistogramChart(filtered, state.SelectedColumns, cfg)
	case KindAggregateLine:
		return buildAggregateChart(filtered, state.SelectedColumns, cfg)
	default:
		cfg.Logger.Debug("unknown chart kind, returning empty chart", zap.String("kind", state.ChartKind))
		return baseChart(state.ChartKind, cfg)
	}
}

// ComputeOverview builds the overview panel from the full, unfiltered view.
// "uniques" charts the selected columns; unknown modes yield an empty Overview.
func ComputeOverview(mode string, columns []string, view RecordView, opts ...Option) *Overview {
	return computeOverview(mode, columns, view, applyOptions(opts))
}

func computeOverview(mode string, columns []string, view RecordView, cfg *config) *Overview {
	ov := &Overview{Mode: mode}
	switch mode {
	case TableHead:
		ov.Table = BuildHeadTable(view, cfg.HeadRows, cfg.Title)
	case TableFull:
		ov.Table = BuildRowsTable(view, cfg.Title)
	case TableDescribe:
		ov.Table = BuildDescribeTable(view, cfg.Title)
	case TableUniques:
		// Counts over the whole dataset outgrow the fixed count axis.
		ov.Chart = buildHistogramChart(view, columns, cfg)
		ov.Chart.YAxis = Axis{Title: cfg.CountAxis.Title}
	default:
		cfg.Logger.Debug("unknown table mode, returning empty overview", zap.String("mode", mode))
	}
	return ov
}

// Execute runs one full dashboard refresh: sub-chart, overview and summary.
// The only error is a nil view.
func Execute(state ControlState, view RecordView, opts ...Option) (*Result, error) {
	if view == nil {
		return nil, ErrNoData
	}
	cfg := applyOptions(opts)
	state = normalizeControlState(state, view, cfg)

	filtered := ApplyFilters(view, criteriaFromState(state, cfg))

	return &Result{
		State:    state,
		Chart:    chartFor(state, filtered, cfg),
		Overview: computeOverview(state.TableMode, state.SelectedColumns, view, cfg),
		Summary:  BuildSummary(filtered, view, cfg.TargetMeasure),
	}, nil
}

// ============================================================================
// CONTROL STATE NORMALIZATION
// ============================================================================

// NormalizeControlState fills defaults and drops selected columns the view
// does not have (or repeats). Unknown kinds and modes are kept as given; the
// builders turn them into empty output.
func NormalizeControlState(state ControlState, view RecordView, opts ...Option) ControlState {
	return normalizeControlState(state, view, applyOptions(opts))
}

func normalizeControlState(state ControlState, view RecordView, cfg *config) ControlState {
	changed := false

	if state.ColorConstraint == "" {
		state.ColorConstraint = AllValues
	}
	if state.ChartKind == "" {
		state.ChartKind = KindHistogram
	}
	if state.TableMode == "" {
		state.TableMode = TableHead
	}

	if len(state.SelectedColumns) > 0 {
		seen := make(map[string]bool, len(state.SelectedColumns))
		kept := make([]string, 0, len(state.SelectedColumns))
		for _, col := range state.SelectedColumns {
			if _, ok := FieldOf(view, col); !ok || seen[col] {
				changed = true
				continue
			}
			seen[col] = true
			kept = append(kept, col)
		}
		state.SelectedColumns = kept
	}

	if changed {
		cfg.Logger.Debug("control state adjusted",
			zap.Strings("columns", state.SelectedColumns),
			zap.String("kind", state.ChartKind))
	}
	return state
}
