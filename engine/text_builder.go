package engine

import "fmt"

// ============================================================================
// TEXT BUILDER — Headline numbers for the overview
// ============================================================================

// BuildSummary describes the filtered view against the full dataset.
func BuildSummary(filtered, all RecordView, measure string) *Summary {
	s := &Summary{
		Title:   "Diamonds Overview",
		Matched: filtered.Len(),
		Total:   all.Len(),
		Measure: measure,
	}

	if CountMeasure(filtered, measure) == 0 {
		s.Headline = fmt.Sprintf("%s of %s records match.", FormatInt(s.Matched), FormatInt(s.Total))
		return s
	}

	s.Mean = RoundTo2(AvgMeasure(filtered, measure))
	s.Min = MinMeasure(filtered, measure)
	s.Max = MaxMeasure(filtered, measure)
	s.Headline = fmt.Sprintf("%s of %s records match, mean %s %.2f (%s to %s).",
		FormatInt(s.Matched), FormatInt(s.Total), measure, s.Mean,
		FormatFloat(s.Min), FormatFloat(s.Max))
	return s
}
