package usecase

import (
	"context"
	"testing"

	"PulseBoard/internal/domain/models"
	applogger "PulseBoard/pkg/logger"
	"PulseBoard/pkg/numeric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisRows() []models.MetricRow {
	rows := []models.MetricRow{
		row("BTC", 1, "1.5%", "B"),
		row("ETH", 1, "-2%", "S"),
		row("SOL", 1, "7.25%", "B"),
		row("ADA", 1, "1.5%", ""),
		row("XRP", 1, "0.1", "B"),
		row("DOT", 1, "3%", "S"),
	}
	vols := []string{"0.2", "0.9", "0.2", "1.4", "0.05", "0.9"}
	for i := range rows {
		rows[i].Volatility = numeric.LooseOf(vols[i])
	}
	return rows
}

func labels(bars []models.BarValue) []string {
	out := make([]string, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Label)
	}
	return out
}

func TestTopVolatilityIsStable(t *testing.T) {
	got := TopVolatility(analysisRows(), 5)
	assert.Equal(t, []string{"ADA", "ETH", "DOT", "BTC", "SOL"}, labels(got))
	assert.InDelta(t, 1.4, got[0].Value, 1e-9)
}

func TestTopGainers(t *testing.T) {
	got := TopGainers(analysisRows(), 3)
	assert.Equal(t, []string{"SOL", "DOT", "BTC"}, labels(got))
	assert.InDelta(t, 7.25, got[0].Value, 1e-9)
}

func TestSignalDistributionKeepsFirstAppearanceOrder(t *testing.T) {
	got := SignalDistribution(analysisRows())
	assert.Equal(t, []models.BarValue{
		{Label: "B", Value: 3},
		{Label: "S", Value: 2},
		{Label: "-", Value: 1},
	}, got)
}

func TestPanelRendererPublishesFrames(t *testing.T) {
	backend := newFakeBackend()
	frames := newMemFrames()
	p := NewPanelRenderer(backend, frames, PanelConfig{TopN: 5, Width: 400, Height: 260}, applogger.Nop())

	p.Render(context.Background(), analysisRows())
	p.Render(context.Background(), analysisRows())

	for _, name := range []string{PanelVolatility, PanelGainers, PanelSignals} {
		png, err := frames.Get(context.Background(), PanelFrame(name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, png)
	}
	assert.Equal(t, 6, backend.constructedCount())
	assert.Equal(t, 3, backend.destroyed)
}

func TestPanelRendererIgnoresEmptyRows(t *testing.T) {
	backend := newFakeBackend()
	frames := newMemFrames()
	p := NewPanelRenderer(backend, frames, PanelConfig{TopN: 5, Width: 400, Height: 260}, applogger.Nop())

	p.Render(context.Background(), nil)

	assert.Equal(t, 0, backend.constructedCount())
	_, err := frames.Get(context.Background(), PanelFrame(PanelSignals))
	assert.Error(t, err)
}

func TestPanelRendererShownByFrameName(t *testing.T) {
	p := NewPanelRenderer(newFakeBackend(), newMemFrames(), PanelConfig{TopN: 5, Width: 400, Height: 260}, applogger.Nop())
	assert.Nil(t, p.Shown(PanelFrame(PanelSignals)))

	p.Render(context.Background(), analysisRows())

	assert.NotEmpty(t, p.Shown(PanelFrame(PanelSignals)))
	assert.NotEmpty(t, p.Shown(PanelFrame(PanelGainers)))
	assert.Nil(t, p.Shown(PanelFrame("heatmap")))
	assert.Nil(t, p.Shown(FrameChart))
}
