package engine

import "fmt"

// Bin is one equal-width histogram bucket, [Low, High).
// The last bin of a histogram also holds values equal to its High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Label renders the bin edges for axis ticks.
func (b Bin) Label() string {
	return fmt.Sprintf("%s–%s", FormatFloat(RoundTo2(b.Low)), FormatFloat(RoundTo2(b.High)))
}

// Histogram partitions values into n equal-width bins spanning their observed
// min and max. Every value lands in exactly one bin. When all values are
// equal the bins are one unit wide and everything falls in the first.
// Returns nil for no values or n < 1.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n < 1 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	width := (hi - lo) / float64(n)
	if width == 0 {
		width = 1
	}

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

// ValueCounts counts each distinct dimension value, sorted by value.
func ValueCounts(view RecordView, dimension string) []Group {
	groups := groupBy(view, dimension)
	for i := range groups {
		groups[i].Count = groups[i].View.Len()
		groups[i].Value = float64(groups[i].Count)
	}
	SortGroups(groups)
	return groups
}
