package usecase

import (
	"context"
	"sort"
	"time"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	applogger "PulseBoard/pkg/logger"
)

// Panel names, also used as frame names.
const (
	PanelVolatility = "volatility"
	PanelGainers    = "gainers"
	PanelSignals    = "signals"
)

// TopVolatility returns the n rows with the highest 1h volatility.
func TopVolatility(rows []models.MetricRow, n int) []models.BarValue {
	bars := make([]models.BarValue, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, models.BarValue{Label: r.Asset, Value: r.Volatility.Float()})
	}
	return topN(bars, n)
}

// TopGainers returns the n rows with the highest 24h percent change.
func TopGainers(rows []models.MetricRow, n int) []models.BarValue {
	bars := make([]models.BarValue, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, models.BarValue{Label: r.Asset, Value: r.PctChange.Percent()})
	}
	return topN(bars, n)
}

// SignalDistribution counts rows per signal code in order of first
// appearance. Rows without a signal count as "-".
func SignalDistribution(rows []models.MetricRow) []models.BarValue {
	index := make(map[string]int)
	out := make([]models.BarValue, 0)
	for _, r := range rows {
		key := string(r.Signal)
		if key == "" {
			key = placeholder
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.BarValue{Label: key})
		}
		out[i].Value++
	}
	return out
}

func topN(bars []models.BarValue, n int) []models.BarValue {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	if len(bars) > n {
		bars = bars[:n]
	}
	return bars
}

// PanelRenderer rebuilds the three analysis panels from table rows. Each
// panel has its own chart lifecycle so that panels never share a surface.
type PanelRenderer struct {
	managers map[string]*ChartManager
	frames   drepo.FrameStore
	frameTTL time.Duration
	topN     int
	width    int
	height   int
	logger   *applogger.Logger
}

type PanelConfig struct {
	TopN     int
	Width    int
	Height   int
	FrameTTL time.Duration
}

func NewPanelRenderer(backend drepo.ChartBackend, frames drepo.FrameStore, cfg PanelConfig, l *applogger.Logger) *PanelRenderer {
	mcfg := ChartManagerConfig{MinHeight: cfg.Height, RecreateSurface: true}
	return &PanelRenderer{
		managers: map[string]*ChartManager{
			PanelVolatility: NewChartManager(backend, mcfg, l),
			PanelGainers:    NewChartManager(backend, mcfg, l),
			PanelSignals:    NewChartManager(backend, mcfg, l),
		},
		frames:   frames,
		frameTTL: cfg.FrameTTL,
		topN:     cfg.TopN,
		width:    cfg.Width,
		height:   cfg.Height,
		logger:   l,
	}
}

// Render redraws every panel. An empty row set leaves the panels as they
// were. Failures are logged per panel and do not stop the others.
func (p *PanelRenderer) Render(ctx context.Context, rows []models.MetricRow) {
	if len(rows) == 0 {
		return
	}

	specs := map[string]models.ChartSpec{
		PanelVolatility: {Kind: models.ChartBar, Title: "Volatility 1H", Bars: TopVolatility(rows, p.topN)},
		PanelGainers:    {Kind: models.ChartBar, Title: "% 24H", Bars: TopGainers(rows, p.topN)},
		PanelSignals:    {Kind: models.ChartPie, Title: "Signals", Bars: SignalDistribution(rows)},
	}

	for name, spec := range specs {
		if err := p.redraw(ctx, name, spec); err != nil {
			p.logger.Warn("panel render failed", applogger.String("panel", name), applogger.Error(err))
		}
	}
}

func (p *PanelRenderer) redraw(ctx context.Context, name string, spec models.ChartSpec) error {
	m := p.managers[name]
	m.Release(m.Current())

	h, err := m.Acquire(spec, p.width, p.height)
	if err != nil {
		return err
	}
	return p.frames.Set(ctx, PanelFrame(name), h.PNG(), p.frameTTL)
}

// Shown returns the last image drawn for the panel published under frame,
// or nil.
func (p *PanelRenderer) Shown(frame string) []byte {
	for name, m := range p.managers {
		if PanelFrame(name) == frame {
			return m.Shown().PNG()
		}
	}
	return nil
}

// PanelFrame is the frame name a panel is published under.
func PanelFrame(name string) string {
	return "panel:" + name
}
