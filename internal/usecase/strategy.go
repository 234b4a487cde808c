package usecase

import (
	"fmt"

	"PulseBoard/internal/domain/models"
)

// StrategyKind is how a resolution is drawn.
type StrategyKind string

const (
	// Continuous draws a line over timestamped points.
	Continuous StrategyKind = "continuous"
	// Discrete draws OHLC candles.
	Discrete StrategyKind = "discrete"
)

// Strategy is the data source and chart shape chosen for a resolution.
type Strategy struct {
	Kind       StrategyKind      `json:"kind"`
	Resolution models.Resolution `json:"resolution"`
	// Known is false for a resolution outside the supported set; such a
	// strategy draws an empty line without fetching anything.
	Known bool `json:"known"`
}

// ChartKind is the chart drawn for this strategy.
func (s Strategy) ChartKind() models.ChartKind {
	if s.Kind == Discrete {
		return models.ChartOHLC
	}
	return models.ChartLine
}

// SelectStrategy maps a resolution onto a strategy. The fine resolution is
// drawn as a line, the coarser buckets as candles.
func SelectStrategy(res, fine models.Resolution) Strategy {
	if !models.IsValidResolution(res) {
		return Strategy{Kind: Continuous, Resolution: res}
	}
	if res == fine {
		return Strategy{Kind: Continuous, Resolution: res, Known: true}
	}
	return Strategy{Kind: Discrete, Resolution: res, Known: true}
}

// BuildChartSpec assembles what the backend draws for one render cycle.
func BuildChartSpec(sel models.SelectionState, s Strategy, points []models.SeriesPoint, candles []models.Candle) models.ChartSpec {
	spec := models.ChartSpec{
		Kind:       s.ChartKind(),
		Title:      fmt.Sprintf("%s (%s)", sel.Asset, sel.Resolution),
		Resolution: sel.Resolution,
	}
	switch s.Kind {
	case Discrete:
		spec.Candles = candles
	default:
		spec.Points = points
	}
	return spec
}

// KPIsFor summarises a fetched data set. The last price is the last point's
// price for lines and the last close for candles.
func KPIsFor(spec models.ChartSpec, format func(v any) string) models.KPIs {
	switch spec.Kind {
	case models.ChartOHLC:
		if n := len(spec.Candles); n > 0 {
			return models.KPIs{Points: n, LastPrice: format(spec.Candles[n-1].Close)}
		}
	default:
		if n := len(spec.Points); n > 0 {
			return models.KPIs{Points: n, LastPrice: format(spec.Points[n-1].Price)}
		}
	}
	return models.KPIs{Points: 0, LastPrice: placeholder}
}
