package chart

import (
	"math"
	"time"

	"PulseBoard/internal/domain/models"
	"PulseBoard/pkg/numeric"
	"PulseBoard/pkg/util"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const axisTicks = 6

var (
	lineColor = drawing.Color{R: 59, G: 130, B: 246, A: 255}
	lineFill  = drawing.Color{R: 59, G: 130, B: 246, A: 40}
	upColor   = drawing.Color{R: 22, G: 163, B: 74, A: 255}
	downColor = drawing.Color{R: 220, G: 38, B: 38, A: 255}

	palette = []drawing.Color{
		{R: 59, G: 130, B: 246, A: 255},
		{R: 16, G: 185, B: 129, A: 255},
		{R: 245, G: 158, B: 11, A: 255},
		{R: 239, G: 68, B: 68, A: 255},
		{R: 139, G: 92, B: 246, A: 255},
		{R: 107, G: 114, B: 128, A: 255},
	}

	chartPadding = gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}}
)

func valueFormatter(v interface{}) string {
	return numeric.Format(v, 0, 2)
}

func lineChart(spec models.ChartSpec, width, height int) gochart.Chart {
	xs := make([]time.Time, 0, len(spec.Points)+1)
	ys := make([]float64, 0, len(spec.Points)+1)
	for _, p := range spec.Points {
		xs = append(xs, p.Timestamp)
		ys = append(ys, p.Price)
	}
	// A single point has no extent; duplicate it one bucket later.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(bucket(spec.Resolution)))
		ys = append(ys, ys[0])
	}

	lo, hi := paddedRange(ys, ys)
	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chartPadding,
		XAxis:      timeAxis(xs[0], xs[len(xs)-1], spec.Resolution, 0),
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: valueFormatter,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Price",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   lineFill,
				},
			},
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch
}

func ohlcChart(spec models.ChartSpec, width, height int) gochart.Chart {
	lows := make([]float64, 0, len(spec.Candles))
	highs := make([]float64, 0, len(spec.Candles))
	for _, c := range spec.Candles {
		l, h := candleExtent(c)
		lows = append(lows, l)
		highs = append(highs, h)
	}
	lo, hi := paddedRange(lows, highs)

	step := bucket(spec.Resolution)
	first := spec.Candles[0].Timestamp
	last := spec.Candles[len(spec.Candles)-1].Timestamp

	return gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chartPadding,
		XAxis:      timeAxis(first, last, spec.Resolution, step/2),
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: valueFormatter,
		},
		Series: []gochart.Series{
			candleSeries{name: "OHLC", candles: spec.Candles, step: step},
		},
	}
}

func barChart(spec models.ChartSpec, width, height int) gochart.BarChart {
	bars := make([]gochart.Value, 0, len(spec.Bars))
	lo, hi := 0.0, 0.0
	for i, b := range spec.Bars {
		col := palette[i%len(palette)]
		bars = append(bars, gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{FillColor: col, StrokeColor: col},
		})
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}

	return gochart.BarChart{
		Title:        spec.Title,
		Width:        width,
		Height:       height,
		Background:   chartPadding,
		BarWidth:     40,
		BarSpacing:   24,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: valueFormatter,
		},
		Bars: bars,
	}
}

func pieChart(spec models.ChartSpec, width, height int) gochart.PieChart {
	values := make([]gochart.Value, 0, len(spec.Bars))
	for i, b := range spec.Bars {
		col := palette[i%len(palette)]
		values = append(values, gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{FillColor: col, StrokeColor: drawing.ColorWhite},
		})
	}
	return gochart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
}

// timeAxis spans [from-pad, to+pad] with evenly spread labelled ticks.
func timeAxis(from, to time.Time, res models.Resolution, pad time.Duration) gochart.XAxis {
	if !to.After(from) {
		to = from.Add(bucket(res))
	}
	layout := util.AxisLayout(string(res))

	ticks := make([]gochart.Tick, 0, axisTicks)
	for _, t := range util.SpreadTimes(from, to, axisTicks) {
		ticks = append(ticks, gochart.Tick{
			Value: gochart.TimeToFloat64(t),
			Label: t.UTC().Format(layout),
		})
	}

	return gochart.XAxis{
		Range: &gochart.ContinuousRange{
			Min: gochart.TimeToFloat64(from.Add(-pad)),
			Max: gochart.TimeToFloat64(to.Add(pad)),
		},
		Ticks: ticks,
	}
}

// paddedRange returns a non-degenerate y range enclosing lows and highs.
func paddedRange(lows, highs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range lows {
		lo = math.Min(lo, v)
	}
	for _, v := range highs {
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.01, 1)
	}
	return lo - pad, hi + pad
}

func bucket(res models.Resolution) time.Duration {
	if d := res.Step(); d > 0 {
		return d
	}
	return time.Second
}
