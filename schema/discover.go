package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column typing
// ============================================================================
// Inspects a raw table (header + string cells) and classifies each column:
//   1. Sample values → null count, unique values
//   2. 80%+ of non-null values numeric → measure, otherwise dimension
//   3. Keys normalised to snake_case, duplicates suffixed (_2, _3, ...)
//
// No column is skipped: every column shows up in the overview grids.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all). Default: 1000
	Name       string // Dataset name override
	Source     string // Recorded in DiscoveredFrom
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
		Name:       "Dataset",
		Source:     "rows",
	}
}

// DiscoverFromCSV generates a Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	opt := pickOptions(opts)
	if opt.Source == "rows" {
		opt.Source = "CSV"
	}
	return DiscoverFromRows(headers, rows, opt)
}

// DiscoverFromRows generates a Config from an in-memory table.
func DiscoverFromRows(headers []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := pickOptions(opts)

	if len(headers) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}

	sample := rows
	if opt.SampleSize > 0 && len(sample) > opt.SampleSize {
		sample = sample[:opt.SampleSize]
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		DiscoveredFrom: opt.Source,
		DiscoveredAt:   time.Now().UTC().Format(time.RFC3339),
	}

	keys := ColumnKeys(headers)
	for i, header := range headers {
		col := analyzeColumn(header, keys[i], i, sample)
		config.Columns = append(config.Columns, col.key)
		if col.numeric {
			config.Measures = append(config.Measures, col.toMeasure())
		} else {
			config.Dimensions = append(config.Dimensions, col.toDimension())
		}
	}

	return config, nil
}

func pickOptions(opts []DiscoverOptions) DiscoverOptions {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Name == "" {
		opt.Name = "Dataset"
	}
	if opt.Source == "" {
		opt.Source = "rows"
	}
	return opt
}

// ColumnKeys normalises headers into unique snake_case keys.
// Empty headers become "column_<n>"; repeats get a numeric suffix.
func ColumnKeys(headers []string) []string {
	keys := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		key := toSnakeCase(strings.TrimSpace(h))
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s_%d", key, n)
		}
		keys[i] = key
	}
	return keys
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnAnalysis struct {
	header string
	key    string
	index  int

	numeric     bool
	hasDecimals bool

	uniqueCount     int
	nullCount       int
	sampleVals      []string
	cardinalityHint string
}

// analyzeColumn inspects all sampled values in a column and classifies it.
func analyzeColumn(header, key string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header: strings.TrimSpace(header),
		key:    key,
		index:  index,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)

	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}

	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, 10)
	col.numeric = detectNumeric(values)

	if col.numeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	return col
}

// detectNumeric requires 80%+ of non-null values to parse as numbers.
// A column with no values at all is treated as categorical.
func detectNumeric(values []string) bool {
	if len(values) == 0 {
		return false
	}
	numCount := 0
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			numCount++
		}
	}
	threshold := int(float64(len(values)) * 0.8)
	return numCount > 0 && numCount >= threshold
}

// ============================================================================
// CELL PARSING
// ============================================================================

var nullTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "N/A": true, "n/a": true,
	"NaN": true, "nan": true, "NA": true,
}

// IsNull reports whether a raw cell should be treated as missing.
func IsNull(s string) bool {
	return nullTokens[strings.TrimSpace(s)]
}

// ParseNumber parses a numeric cell, tolerating thousands separators and a
// leading currency symbol ("$1,234.56"). Non-finite values are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return 0, false
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.key,
		Header:          col.header,
		DisplayName:     toDisplayName(col.key),
		SampleValues:    col.sampleVals,
		UniqueCount:     col.uniqueCount,
		CardinalityHint: col.cardinalityHint,
		NullCount:       col.nullCount,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.key,
		Header:      col.header,
		DisplayName: toDisplayName(col.key),
		HasDecimals: col.hasDecimals,
		NullCount:   col.nullCount,
	}
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = strings.ToLower(result.String())
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "_", ":", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName turns a key into a title: "table_pct" → "Table Pct".
func toDisplayName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
