package models

import (
	"time"

	"PulseBoard/pkg/numeric"
)

// MetricRow is one asset's line in the backend metrics table. Every numeric
// field may arrive as a number or as a formatted string ("-" when missing).
type MetricRow struct {
	Asset      string        `json:"crypto"`
	Price      numeric.Loose `json:"actual_price"`
	High       numeric.Loose `json:"highest_1h"`
	Low        numeric.Loose `json:"lower_1h"`
	Average    numeric.Loose `json:"avg_1h"`
	Volatility numeric.Loose `json:"volatility_1h"`
	PctChange  numeric.Loose `json:"pct_change_24h"`
	Signal     Signal        `json:"signal"`
}

// SeriesPoint is a single price observation, ascending by Timestamp.
type SeriesPoint struct {
	Timestamp time.Time `json:"ts"`
	Price     float64   `json:"price"`
}

// Candle is one OHLC bucket.
type Candle struct {
	Timestamp time.Time `json:"ts"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// Signal is the backend trading signal code.
type Signal string

const (
	SignalBuy  Signal = "B"
	SignalSell Signal = "S"
)

// SignalClass is the closed display classification of a signal.
type SignalClass string

const (
	SignalClassBuy     SignalClass = "buy"
	SignalClassSell    SignalClass = "sell"
	SignalClassNeutral SignalClass = "neutral"
)

// Class maps the two defined codes and folds everything else into neutral.
func (s Signal) Class() SignalClass {
	switch s {
	case SignalBuy:
		return SignalClassBuy
	case SignalSell:
		return SignalClassSell
	default:
		return SignalClassNeutral
	}
}

// ChangeClass classifies a percent change for display.
type ChangeClass string

const (
	ChangeGain    ChangeClass = "gain"
	ChangeLoss    ChangeClass = "loss"
	ChangeNeutral ChangeClass = "neutral"
)

func ClassifyChange(pct float64) ChangeClass {
	switch {
	case pct > 0:
		return ChangeGain
	case pct < 0:
		return ChangeLoss
	default:
		return ChangeNeutral
	}
}
