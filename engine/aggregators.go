package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView and skip missing values.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// GroupAndAggregate groups the view by column and averages measure per group,
// in natural group order. Rows missing the group column are left out.
func GroupAndAggregate(view RecordView, column, measure string) []Group {
	if view.Len() == 0 {
		return nil
	}

	groups := groupBy(view, column)
	for i := range groups {
		g := &groups[i]
		g.Count = g.View.Len()
		g.Value = AvgMeasure(g.View, measure)
	}
	SortGroups(groups)
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBy(view RecordView, column string) []Group {
	field, _ := FieldOf(view, column)
	numeric := field.Kind == FieldMeasure

	grouped := make(map[string][]int)
	orders := make(map[string]float64)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		var key string
		if numeric {
			v, ok := view.Measure(i, column)
			if !ok {
				continue
			}
			key = FormatFloat(v)
			orders[key] = v
		} else {
			s, ok := view.Dimension(i, column)
			if !ok {
				continue
			}
			key = s
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:     key,
			Label:   key,
			Numeric: numeric,
			Order:   orders[key],
			View:    newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// MeasureValues returns the non-missing values of a measure, in view order.
func MeasureValues(view RecordView, measure string) []float64 {
	values := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			values = append(values, v)
		}
	}
	return values
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			total += v
		}
	}
	return total
}

// CountMeasure counts rows where the measure is present.
func CountMeasure(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if _, ok := view.Measure(i, measure); ok {
			n++
		}
	}
	return n
}

// AvgMeasure computes the mean of the non-missing values of a measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := CountMeasure(view, measure)
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	_, hi, ok := MeasureBounds(view, measure)
	if !ok {
		return 0
	}
	return hi
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	lo, _, ok := MeasureBounds(view, measure)
	if !ok {
		return 0
	}
	return lo
}

// MeasureBounds returns the observed min and max of a measure.
// ok is false when the view holds no value for it.
func MeasureBounds(view RecordView, measure string) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < view.Len(); i++ {
		v, present := view.Measure(i, measure)
		if !present {
			continue
		}
		ok = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups orders groups numerically for numeric groups and
// lexicographically otherwise.
func SortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool { return naturalLess(groups[i], groups[j]) })
}

func naturalLess(a, b Group) bool {
	if a.Numeric && b.Numeric {
		return a.Order < b.Order
	}
	return a.Key < b.Key
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatFloat renders a value with the shortest exact representation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatStat renders a summary statistic the way describe grids show them.
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns the distinct values of a dimension in sorted order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val, ok := view.Dimension(i, dimension)
		if ok && val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	sort.Strings(result)
	return result
}

// MeanLabel is the axis title for a per-group average of measure.
func MeanLabel(measure string) string {
	return "Mean " + strings.ToLower(measure)
}
