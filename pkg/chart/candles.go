package chart

import (
	"errors"
	"math"
	"time"

	"PulseBoard/internal/domain/models"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// candleSeries draws OHLC candles: a wick from low to high and a body from
// open to close, green when the close is at or above the open.
type candleSeries struct {
	name    string
	candles []models.Candle
	step    time.Duration
	style   gochart.Style
}

func (cs candleSeries) GetName() string { return cs.name }

func (cs candleSeries) GetStyle() gochart.Style { return cs.style }

func (cs candleSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }

func (cs candleSeries) Len() int { return len(cs.candles) }

// GetBoundedValues lets go-chart size its ranges from the wick extent.
func (cs candleSeries) GetBoundedValues(index int) (x, y1, y2 float64) {
	c := cs.candles[index]
	lo, hi := candleExtent(c)
	return gochart.TimeToFloat64(c.Timestamp), hi, lo
}

func (cs candleSeries) Validate() error {
	if len(cs.candles) == 0 {
		return errors.New("candle series has no candles")
	}
	return nil
}

func (cs candleSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	if len(cs.candles) == 0 {
		return
	}

	x0 := gochart.TimeToFloat64(cs.candles[0].Timestamp)
	slot := xrange.Translate(x0+float64(cs.step)) - xrange.Translate(x0)
	half := int(float64(slot) * 0.35)
	if half < 1 {
		half = 1
	}

	for _, c := range cs.candles {
		col := upColor
		if c.Close < c.Open {
			col = downColor
		}
		lo, hi := candleExtent(c)

		x := canvasBox.Left + xrange.Translate(gochart.TimeToFloat64(c.Timestamp))
		yHigh := canvasBox.Bottom - yrange.Translate(hi)
		yLow := canvasBox.Bottom - yrange.Translate(lo)
		yOpen := canvasBox.Bottom - yrange.Translate(c.Open)
		yClose := canvasBox.Bottom - yrange.Translate(c.Close)

		r.SetStrokeColor(col)
		r.SetStrokeWidth(1)
		r.MoveTo(x, yHigh)
		r.LineTo(x, yLow)
		r.Stroke()

		top, bottom := yOpen, yClose
		if top > bottom {
			top, bottom = bottom, top
		}
		if bottom == top {
			bottom = top + 1
		}

		r.SetFillColor(col)
		r.SetStrokeColor(col)
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.LineTo(x-half, top)
		r.Close()
		r.FillStroke()
	}
}

// candleExtent is the low and high of c, widened to contain open and close.
func candleExtent(c models.Candle) (float64, float64) {
	lo := math.Min(c.Low, math.Min(c.Open, c.Close))
	hi := math.Max(c.High, math.Max(c.Open, c.Close))
	return lo, hi
}
