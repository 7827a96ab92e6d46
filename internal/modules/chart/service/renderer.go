package service

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"trend_bot/internal/models"
	"trend_bot/pkg/logger"
)

const chartFile = "chart.png"

var (
	colorPrice = drawing.ColorFromHex("1f77b4")
	colorFast  = drawing.ColorFromHex("ff7f0e")
	colorSlow  = drawing.ColorFromHex("2ca02c")
	colorBuy   = drawing.ColorFromHex("2ca02c")
	colorSell  = drawing.ColorFromHex("d62728")
)

// Renderer рисует цену и две EMA в PNG.
type Renderer struct {
	title  string
	fastN  int
	slowN  int
	width  int
	height int
	dir    string // пусто: файл не сохраняем
}

func NewRenderer(title string, fastN, slowN int, dir string) *Renderer {
	return &Renderer{title: title, fastN: fastN, slowN: slowN, width: 1000, height: 500, dir: dir}
}

// Render: marker BUY/SELL ставится на последнюю точку, HOLD без отметки.
// NaN в рядах EMA пропускаются.
func (r *Renderer) Render(prices, fast, slow []float64, marker models.Side) ([]byte, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("chart: need at least 2 prices, got %d", len(prices))
	}

	series := []chart.Series{line("Price", colorPrice, prices)}
	if s, ok := seriesOf(fmt.Sprintf("EMA(%d)", r.fastN), colorFast, fast); ok {
		series = append(series, s)
	}
	if s, ok := seriesOf(fmt.Sprintf("EMA(%d)", r.slowN), colorSlow, slow); ok {
		series = append(series, s)
	}
	if a, ok := markerOf(prices, marker); ok {
		series = append(series, a)
	}

	lo, hi := bounds(prices, fast, slow)
	graph := chart.Chart{
		Title:  r.title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{Name: "tick"},
		YAxis: chart.YAxis{
			Name:  "price",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render: %w", err)
	}
	png := buf.Bytes()
	r.save(png)
	return png, nil
}

func (r *Renderer) save(png []byte) {
	if r.dir == "" {
		return
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		logger.Warn("chart dir %s: %v", r.dir, err)
		return
	}
	path := filepath.Join(r.dir, chartFile)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		logger.Warn("chart save %s: %v", path, err)
	}
}

func line(name string, color drawing.Color, ys []float64) chart.ContinuousSeries {
	xs := make([]float64, len(ys))
	for i := range ys {
		xs[i] = float64(i)
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
	}
}

// seriesOf выкидывает NaN, сохраняя x исходных индексов.
func seriesOf(name string, color drawing.Color, ys []float64) (chart.ContinuousSeries, bool) {
	var xs, vs []float64
	for i, v := range ys {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(i))
		vs = append(vs, v)
	}
	if len(vs) < 2 {
		return chart.ContinuousSeries{}, false
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: vs,
		Style:   chart.Style{StrokeColor: color, StrokeWidth: 1.5},
	}, true
}

func markerOf(prices []float64, side models.Side) (chart.AnnotationSeries, bool) {
	var color drawing.Color
	switch side {
	case models.SideBuy:
		color = colorBuy
	case models.SideSell:
		color = colorSell
	default:
		return chart.AnnotationSeries{}, false
	}
	last := len(prices) - 1
	return chart.AnnotationSeries{
		Name: string(side),
		Style: chart.Style{
			StrokeColor: color,
			FillColor:   color.WithAlpha(64),
		},
		Annotations: []chart.Value2{
			{XValue: float64(last), YValue: prices[last], Label: string(side)},
		},
	}, true
}

// bounds: диапазон оси Y с полями, не вырожденный при плоской цене.
func bounds(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.01, 1)
	}
	return lo - pad, hi + pad
}
