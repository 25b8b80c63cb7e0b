package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ============================================================================
// CSV LOADER — Parses delimited text into a Dataset
// ============================================================================
// First row is the header. Rows with a different cell count are kept (short
// rows read as missing values); rows the reader cannot parse are skipped.
// ============================================================================

// ParseCSV reads CSV (or TSV with Options.Delimiter = '\t') from r.
func ParseCSV(r io.Reader, opts Options) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if reader.Comma == '\t' {
		reader.LazyQuotes = true
	}

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		opts.logger().Warn("skipped malformed CSV rows", zap.Int("rows", skipped))
	}

	source := "CSV"
	if reader.Comma == '\t' {
		source = "TSV"
	}
	return FromTable(headers, rows, source, opts)
}
