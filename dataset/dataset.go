// Package dataset loads a tabular file into an immutable, typed Dataset that
// the engine reads through engine.RecordView.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/schema"
)

var (
	// ErrUnsupportedFormat is returned for file extensions Load cannot read.
	ErrUnsupportedFormat = errors.New("dataset: unsupported format")
	// ErrNoRows is returned when the file has a header but no records.
	ErrNoRows = errors.New("dataset: no data rows")
)

// Product describes a derived numeric column computed as the product of
// three existing numeric columns.
type Product struct {
	Name    string    `yaml:"name" json:"name"`
	Factors [3]string `yaml:"factors" json:"factors"`
}

// Volume is the derived column of the diamonds dataset.
var Volume = Product{Name: "volume", Factors: [3]string{"x", "y", "z"}}

// Options controls how a file becomes a Dataset.
type Options struct {
	Name      string
	Sheet     string // XLSX sheet (first sheet when empty)
	Delimiter rune   // CSV delimiter (',' when zero)
	Derived   []Product
	Logger    *zap.Logger
}

// DefaultOptions returns the loader settings for the diamonds dataset.
func DefaultOptions() Options {
	return Options{
		Derived: []Product{Volume},
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Dataset is the loaded table. It is never mutated after construction and
// may be shared across goroutines.
type Dataset struct {
	name    string
	schema  *schema.Config
	records []engine.Record
	view    engine.RecordView
}

// Load reads path, choosing the parser by extension (.csv, .tsv, .xlsx).
func Load(path string, opts Options) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".xlsx":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var ds *Dataset
	switch ext {
	case ".tsv":
		opts.Delimiter = '\t'
		ds, err = ParseCSV(f, opts)
	case ".csv":
		ds, err = ParseCSV(f, opts)
	case ".xlsx":
		ds, err = ParseXLSX(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	opts.logger().Info("dataset loaded",
		zap.String("path", path),
		zap.String("name", ds.Name()),
		zap.Int("records", ds.Len()),
		zap.Int("dimensions", len(ds.schema.Dimensions)),
		zap.Int("measures", len(ds.schema.Measures)))
	return ds, nil
}

// FromTable types a header + string cells table into a Dataset.
// Leading unnamed index columns are dropped.
func FromTable(headers []string, rows [][]string, source string, opts Options) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("dataset: missing header row")
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	skip := leadingIndexColumns(headers)
	if skip > 0 {
		opts.logger().Debug("dropping unnamed index columns", zap.Int("count", skip))
		headers = headers[skip:]
		trimmed := make([][]string, len(rows))
		for i, row := range rows {
			if len(row) > skip {
				trimmed[i] = row[skip:]
			}
		}
		rows = trimmed
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("dataset: no columns besides the index")
	}

	name := opts.Name
	if name == "" {
		name = "dataset"
	}
	// Every row takes part in typing so late outliers cannot flip a column.
	cfg, err := schema.DiscoverFromRows(headers, rows, schema.DiscoverOptions{Name: name, Source: source})
	if err != nil {
		return nil, fmt.Errorf("dataset: discover columns: %w", err)
	}

	records := buildRecords(cfg, rows)
	for _, p := range opts.Derived {
		if err := addProduct(cfg, records, p); err != nil {
			opts.logger().Warn("derived column skipped", zap.String("column", p.Name), zap.Error(err))
		}
	}

	return &Dataset{
		name:    name,
		schema:  cfg,
		records: records,
		view:    engine.NewSliceView(records, cfg.Fields()...),
	}, nil
}

// leadingIndexColumns counts header cells at the start of the row that are
// blank or pandas-style "Unnamed: N".
func leadingIndexColumns(headers []string) int {
	n := 0
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h != "" && !strings.HasPrefix(h, "Unnamed:") {
			break
		}
		n++
	}
	return n
}

func buildRecords(cfg *schema.Config, rows [][]string) []engine.Record {
	measures := make(map[string]bool, len(cfg.Measures))
	for _, m := range cfg.Measures {
		measures[m.Key] = true
	}

	records := make([]engine.Record, len(rows))
	for r, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, key := range cfg.Columns {
			if i >= len(row) || schema.IsNull(row[i]) {
				continue
			}
			if measures[key] {
				// Unparsable numeric cells are treated as missing.
				if f, ok := schema.ParseNumber(row[i]); ok {
					rec.Measures[key] = f
				}
			} else {
				rec.Dimensions[key] = strings.TrimSpace(row[i])
			}
		}
		records[r] = rec
	}
	return records
}

func addProduct(cfg *schema.Config, records []engine.Record, p Product) error {
	if p.Name == "" {
		return fmt.Errorf("empty column name")
	}
	for _, existing := range cfg.Columns {
		if existing == p.Name {
			return fmt.Errorf("column %q already exists", p.Name)
		}
	}
	for _, f := range p.Factors {
		if _, ok := cfg.Measure(f); !ok {
			return fmt.Errorf("factor %q is not a numeric column", f)
		}
	}

	for i := range records {
		m := records[i].Measures
		x, okX := m[p.Factors[0]]
		y, okY := m[p.Factors[1]]
		z, okZ := m[p.Factors[2]]
		if okX && okY && okZ {
			m[p.Name] = x * y * z
		}
	}
	cfg.AddDerivedMeasure(p.Name, p.Factors[:])
	return nil
}

// View returns the read-only engine view over all records.
func (d *Dataset) View() engine.RecordView { return d.view }

// Schema returns the discovered column typing. Callers must not modify it.
func (d *Dataset) Schema() *schema.Config { return d.schema }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Fields returns the ordered columns.
func (d *Dataset) Fields() []engine.Field { return d.view.Fields() }
