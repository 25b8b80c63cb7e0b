// Package render turns engine chart and table specifications into bytes:
// PNG images, text grids, CSV and XLSX exports. It carries no query logic.
package render

import (
	"go.uber.org/zap"
)

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a caller passes a zero Size.
var DefaultSize = Size{Width: 900, Height: 420}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

// Option configures a render call.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger reports render fallbacks to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
