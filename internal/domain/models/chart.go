package models

import "time"

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartOHLC ChartKind = "ohlc"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

// ChartSpec is everything a drawing backend needs to produce one chart.
type ChartSpec struct {
	Kind       ChartKind
	Title      string
	Resolution Resolution
	Width      int
	Height     int
	Points     []SeriesPoint
	Candles    []Candle
	Bars       []BarValue
}

// Empty reports whether there is nothing to draw.
func (s ChartSpec) Empty() bool {
	switch s.Kind {
	case ChartLine:
		return len(s.Points) == 0
	case ChartOHLC:
		return len(s.Candles) == 0
	default:
		return len(s.Bars) == 0
	}
}

// BarValue is one labelled value of a bar or pie panel.
type BarValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// KPIs summarise the last completed render cycle.
type KPIs struct {
	Points    int       `json:"points"`
	LastPrice string    `json:"last_price"`
	UpdatedAt time.Time `json:"updated_at"`
}
