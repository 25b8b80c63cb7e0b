package engine

import (
	"math"
	"sort"
)

// ============================================================================
// DESCRIBE — per-column summary statistics
// ============================================================================
// Numeric columns: count, mean, std (n-1), min, quartiles, max.
// Categorical columns: count, unique, top, freq.
// ============================================================================

// ColumnStats summarizes one column. Numeric fields are NaN for categorical
// columns and for numeric columns without enough values.
type ColumnStats struct {
	Key    string    `json:"key"`
	Kind   FieldKind `json:"kind"`
	Count  int       `json:"count"`
	Unique int       `json:"unique,omitempty"`
	Top    string    `json:"top,omitempty"`
	Freq   int       `json:"freq,omitempty"`
	Mean   float64   `json:"-"`
	Std    float64   `json:"-"`
	Min    float64   `json:"-"`
	Q1     float64   `json:"-"`
	Median float64   `json:"-"`
	Q3     float64   `json:"-"`
	Max    float64   `json:"-"`
}

// Describe computes ColumnStats for every column of the view, in column order.
func Describe(view RecordView) []ColumnStats {
	fields := view.Fields()
	out := make([]ColumnStats, 0, len(fields))
	for _, f := range fields {
		if f.Kind == FieldMeasure {
			out = append(out, describeMeasure(view, f.Key))
		} else {
			out = append(out, describeDimension(view, f.Key))
		}
	}
	return out
}

func describeMeasure(view RecordView, key string) ColumnStats {
	values := MeasureValues(view, key)
	st := ColumnStats{
		Key:    key,
		Kind:   FieldMeasure,
		Count:  len(values),
		Mean:   math.NaN(),
		Std:    math.NaN(),
		Min:    math.NaN(),
		Q1:     math.NaN(),
		Median: math.NaN(),
		Q3:     math.NaN(),
		Max:    math.NaN(),
	}
	if len(values) == 0 {
		return st
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st.Mean = Mean(values)
	st.Std = StdDev(values)
	st.Min = sorted[0]
	st.Q1 = Quantile(sorted, 0.25)
	st.Median = Quantile(sorted, 0.5)
	st.Q3 = Quantile(sorted, 0.75)
	st.Max = sorted[len(sorted)-1]
	return st
}

func describeDimension(view RecordView, key string) ColumnStats {
	st := ColumnStats{Key: key, Kind: FieldDimension}
	counts := make(map[string]int)
	var order []string
	for i := 0; i < view.Len(); i++ {
		v, ok := view.Dimension(i, key)
		if !ok {
			continue
		}
		st.Count++
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	st.Unique = len(order)
	for _, v := range order {
		if counts[v] > st.Freq {
			st.Top = v
			st.Freq = counts[v]
		}
	}
	return st
}

// Mean returns the arithmetic mean, NaN for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, NaN for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Quantile returns the q-th quantile of sorted values by linear interpolation
// between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
