package engine

import (
	"fmt"
	"math/rand"
	"sync"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Palette hands out one color per series for a single chart.
type Palette interface {
	Colors(n int) []string
}

// FixedPalette cycles through its colors by series index. Deterministic.
type FixedPalette []string

func (p FixedPalette) Colors(n int) []string {
	colors := make([]string, n)
	if len(p) == 0 {
		return colors
	}
	for i := 0; i < n; i++ {
		colors[i] = p[i%len(p)]
	}
	return colors
}

// RandomPalette draws a new "#RRGGBB" color per series on every call.
// Colors is safe for concurrent use once src is owned by the palette.
type RandomPalette struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPalette wraps src; a nil src is seeded from the global source.
func NewRandomPalette(src rand.Source) *RandomPalette {
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}
	return &RandomPalette{rng: rand.New(src)}
}

func (p *RandomPalette) Colors(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	colors := make([]string, n)
	for i := range colors {
		colors[i] = fmt.Sprintf("#%06X", p.rng.Intn(1<<24))
	}
	return colors
}
