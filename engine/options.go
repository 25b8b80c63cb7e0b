package engine

import (
	"math/rand"

	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for ComputeChart / Execute
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger         *zap.Logger
	Palette        Palette
	Bins           int
	CountAxis      Axis
	RangeColumn    string // numeric column the range control restricts
	CategoryColumn string // categorical column the radio control restricts
	TargetMeasure  string // averaged by aggregate-line mode
	InclusiveHigh  bool
	HeadRows       int
	Title          string
}

// Defaults mirror the gemstone dashboard.
const (
	DefaultBins           = 20
	DefaultHeadRows       = 10
	DefaultRangeColumn    = "price"
	DefaultCategoryColumn = "color"
	DefaultTargetMeasure  = "price"
)

// WithLogger routes engine debug logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithPalette colors series by cycling through colors.
func WithPalette(colors ...string) Option {
	return func(c *config) {
		if len(colors) > 0 {
			c.Palette = FixedPalette(colors)
		}
	}
}

// WithRandomColors gives every series a fresh pseudo-random hex color on
// every call. Output is not stable across calls. The option owns src: every
// call made with it draws from one palette, so src must not be used elsewhere.
func WithRandomColors(src rand.Source) Option {
	p := NewRandomPalette(src)
	return func(c *config) {
		c.Palette = p
	}
}

// WithBins sets the histogram bin count.
func WithBins(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.Bins = n
		}
	}
}

// WithCountAxis fixes the histogram count axis display range and tick spacing.
// max <= min leaves the axis on auto range.
func WithCountAxis(min, max, tick float64) Option {
	return func(c *config) {
		c.CountAxis.Min = min
		c.CountAxis.Max = max
		c.CountAxis.Tick = tick
	}
}

// WithRangeColumn sets the numeric column restricted by ControlState.PriceRange.
func WithRangeColumn(key string) Option {
	return func(c *config) {
		if key != "" {
			c.RangeColumn = key
		}
	}
}

// WithCategoryColumn sets the column restricted by ControlState.ColorConstraint.
func WithCategoryColumn(key string) Option {
	return func(c *config) {
		if key != "" {
			c.CategoryColumn = key
		}
	}
}

// WithTargetMeasure sets the measure averaged per group in aggregate-line mode.
func WithTargetMeasure(key string) Option {
	return func(c *config) {
		if key != "" {
			c.TargetMeasure = key
		}
	}
}

// WithInclusiveUpperBound makes the range filter include its high bound.
func WithInclusiveUpperBound(inclusive bool) Option {
	return func(c *config) {
		c.InclusiveHigh = inclusive
	}
}

// WithHeadRows sets how many rows the "head" overview shows.
func WithHeadRows(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.HeadRows = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:         zap.NewNop(),
		Palette:        FixedPalette(defaultColors),
		Bins:           DefaultBins,
		CountAxis:      Axis{Title: "Count", Min: 0, Max: 5000, Tick: 500},
		RangeColumn:    DefaultRangeColumn,
		CategoryColumn: DefaultCategoryColumn,
		TargetMeasure:  DefaultTargetMeasure,
		HeadRows:       DefaultHeadRows,
		Title:          "Overview",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
