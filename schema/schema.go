package schema

import "github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"

// ============================================================================
// SCHEMA — Describes the shape of a tabular dataset
// ============================================================================
// Discovered from the raw file by the loader (column typing), then used to
// build typed records and the dashboard's control metadata.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	// Columns lists every column key in file order (derived columns last).
	Columns    []string        `json:"columns"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
}

// DimensionMeta describes a categorical column.
type DimensionMeta struct {
	Key             string   `json:"key"`
	Header          string   `json:"header"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	UniqueCount     int      `json:"uniqueCount"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	NullCount       int      `json:"nullCount,omitempty"`
}

// MeasureMeta describes a numeric column.
type MeasureMeta struct {
	Key         string `json:"key"`
	Header      string `json:"header"`
	DisplayName string `json:"displayName"`
	HasDecimals bool   `json:"hasDecimals,omitempty"`
	NullCount   int    `json:"nullCount,omitempty"`
	// DerivedFrom lists the factor columns of a computed column.
	DerivedFrom []string `json:"derivedFrom,omitempty"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// Fields returns the engine column list in file order.
func (c Config) Fields() []engine.Field {
	fields := make([]engine.Field, 0, len(c.Columns))
	for _, key := range c.Columns {
		if _, ok := c.Measure(key); ok {
			fields = append(fields, engine.Field{Key: key, Kind: engine.FieldMeasure})
		} else if _, ok := c.Dimension(key); ok {
			fields = append(fields, engine.Field{Key: key, Kind: engine.FieldDimension})
		}
	}
	return fields
}

// AddDerivedMeasure appends a computed numeric column.
func (c *Config) AddDerivedMeasure(key string, factors []string) {
	c.Columns = append(c.Columns, key)
	c.Measures = append(c.Measures, MeasureMeta{
		Key:         key,
		Header:      key,
		DisplayName: toDisplayName(key),
		HasDecimals: true,
		DerivedFrom: append([]string(nil), factors...),
	})
}
