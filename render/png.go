package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// ============================================================================
// PNG CHARTS — go-chart rendering of engine.ChartConfig
// ============================================================================
// A single histogram series draws as a bar chart. Several series, and
// aggregate lines, draw as continuous series with dots on a shared x axis.
// An empty specification or a go-chart failure yields a blank placeholder
// of the requested size so the page still updates.
// ============================================================================

var errNoPoints = errors.New("chart has no data points")

const placeholderBackground = "F9F9F9"

// ChartPNG writes spec as a PNG image of the given size.
// Errors are only returned when writing to w fails.
func ChartPNG(w io.Writer, spec *engine.ChartConfig, size Size, opts ...Option) error {
	o := applyOptions(opts)
	size = size.orDefault()

	var buf bytes.Buffer
	if err := renderChart(&buf, spec, size); err != nil {
		title := ""
		if spec != nil {
			title = spec.Title
		}
		o.logger.Debug("chart render fell back to placeholder",
			zap.String("title", title),
			zap.Error(err))

		buf.Reset()
		if err := blankPNG(&buf, size, backgroundOf(spec)); err != nil {
			return fmt.Errorf("render placeholder: %w", err)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func renderChart(w io.Writer, spec *engine.ChartConfig, size Size) error {
	if spec == nil || !hasPoints(spec) {
		return errNoPoints
	}
	if len(spec.Series) == 1 && spec.Series[0].Kind == engine.KindHistogram {
		return renderBars(w, spec, size)
	}
	return renderLines(w, spec, size)
}

func hasPoints(spec *engine.ChartConfig) bool {
	for _, s := range spec.Series {
		if len(s.Data) > 0 {
			return true
		}
	}
	return false
}

func renderBars(w io.Writer, spec *engine.ChartConfig, size Size) error {
	s := spec.Series[0]
	col := seriesColor(s)

	bars := make([]chart.Value, len(s.Data))
	for i, p := range s.Data {
		label := p.Label
		if s.BinWidth > 0 {
			label = engine.FormatFloat(engine.RoundTo2(p.X))
		}
		bars[i] = chart.Value{
			Value: p.Value,
			Label: label,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		}
	}

	spacing := 4
	barWidth := (size.Width-140)/len(bars) - spacing
	if barWidth < 2 {
		barWidth = 2
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      yAxis(spec.YAxis),
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

func renderLines(w io.Writer, spec *engine.ChartConfig, size Size) error {
	var series []chart.Series
	for _, s := range spec.Series {
		if len(s.Data) == 0 {
			continue
		}
		xs := make([]float64, len(s.Data))
		ys := make([]float64, len(s.Data))
		for j, p := range s.Data {
			xs[j] = p.X + s.BinWidth/2
			ys[j] = p.Value
		}
		// go-chart cannot range a single point.
		if len(xs) == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		col := seriesColor(s)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3},
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: spec.XAxis.Title},
		YAxis:      yAxis(spec.YAxis),
		Series:     series,
	}
	if spec.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

// yAxis maps a fixed engine axis onto a go-chart range with explicit ticks.
func yAxis(a engine.Axis) chart.YAxis {
	y := chart.YAxis{Name: a.Title}
	if !a.Fixed() {
		return y
	}
	y.Range = &chart.ContinuousRange{Min: a.Min, Max: a.Max}
	if a.Tick > 0 && (a.Max-a.Min)/a.Tick <= 100 {
		for v := a.Min; v <= a.Max+a.Tick/2; v += a.Tick {
			y.Ticks = append(y.Ticks, chart.Tick{Value: v, Label: engine.FormatFloat(v)})
		}
	}
	return y
}

var fallbackColor = drawing.ColorFromHex("1F77B4")

func seriesColor(s engine.ChartSeries) drawing.Color {
	hex := strings.TrimPrefix(s.Color, "#")
	if len(hex) != 6 {
		return fallbackColor
	}
	return drawing.ColorFromHex(hex)
}

func backgroundOf(spec *engine.ChartConfig) string {
	if spec == nil || spec.Background == "" {
		return placeholderBackground
	}
	return strings.TrimPrefix(spec.Background, "#")
}

// blankPNG writes a uniformly filled image.
func blankPNG(w io.Writer, size Size, hex string) error {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: drawing.ColorFromHex(hex)}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}
