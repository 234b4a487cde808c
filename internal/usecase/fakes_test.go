package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	"PulseBoard/pkg/numeric"
)

type fakeSources struct {
	mu      sync.Mutex
	rows    []models.MetricRow
	points  []models.SeriesPoint
	candles []models.Candle
	err     error

	tableCalls  atomic.Int32
	seriesCalls atomic.Int32
	candleCalls atomic.Int32

	// block, when set, holds FetchSeries until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeSources) FetchTable(ctx context.Context) ([]models.MetricRow, error) {
	f.tableCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSources) FetchSeries(ctx context.Context, asset string, res models.Resolution) ([]models.SeriesPoint, error) {
	f.seriesCalls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func (f *fakeSources) FetchCandles(ctx context.Context, asset string, res models.Resolution) ([]models.Candle, error) {
	f.candleCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

func (f *fakeSources) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSources) asSources() Sources {
	return Sources{Table: f, Series: f, Candles: f}
}

type fakeSurface struct {
	id        string
	w, h      int
	discarded bool
}

func (s *fakeSurface) ID() string       { return s.id }
func (s *fakeSurface) Size() (int, int) { return s.w, s.h }
func (s *fakeSurface) Discard()         { s.discarded = true }

type fakeChart struct {
	backend   *fakeBackend
	surfaceID string
	destroyed bool
}

func (c *fakeChart) PNG() []byte { return []byte("png:" + c.surfaceID) }

func (c *fakeChart) Destroy() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	if c.destroyed {
		return drepo.ErrChartDestroyed
	}
	c.destroyed = true
	c.backend.destroyed++
	if !c.backend.leaky {
		delete(c.backend.registry, c.surfaceID)
	}
	return nil
}

// fakeBackend mimics a drawing library that keys charts by surface id. In
// leaky mode Destroy keeps the registration, as some libraries do.
type fakeBackend struct {
	mu          sync.Mutex
	leaky       bool
	registry    map[string]bool
	surfaces    []*fakeSurface
	specs       []models.ChartSpec
	constructed int
	destroyed   int
	fail        error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{registry: make(map[string]bool)}
}

func (b *fakeBackend) NewSurface(w, h int) (drepo.Surface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &fakeSurface{id: fmt.Sprintf("surface-%d", len(b.surfaces)+1), w: w, h: h}
	b.surfaces = append(b.surfaces, s)
	return s, nil
}

func (b *fakeBackend) NewChart(s drepo.Surface, spec models.ChartSpec) (drepo.Chart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	if b.registry[s.ID()] {
		return nil, drepo.ErrSurfaceRegistered
	}
	b.registry[s.ID()] = true
	b.constructed++
	b.specs = append(b.specs, spec)
	return &fakeChart{backend: b, surfaceID: s.ID()}, nil
}

func (b *fakeBackend) constructedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.constructed
}

func (b *fakeBackend) lastSpec() models.ChartSpec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.specs[len(b.specs)-1]
}

type memFrames struct {
	mu     sync.Mutex
	frames map[string][]byte
}

func newMemFrames() *memFrames {
	return &memFrames{frames: make(map[string][]byte)}
}

func (m *memFrames) Set(ctx context.Context, name string, png []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[name] = png
	return nil
}

func (m *memFrames) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.frames[name]
	if !ok {
		return nil, drepo.ErrFrameNotFound
	}
	return b, nil
}

type recorderStub struct {
	mu      sync.Mutex
	tables  []drepo.TableEvent
	renders []drepo.RenderEvent
}

func (r *recorderStub) RecordTable(ctx context.Context, ev drepo.TableEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = append(r.tables, ev)
	return nil
}

func (r *recorderStub) RecordRender(ctx context.Context, ev drepo.RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, ev)
	return nil
}

func (r *recorderStub) Close() error { return nil }

type metricsStub struct {
	mu      sync.Mutex
	renders map[string]int
	errors  map[string]int
}

func newMetricsStub() *metricsStub {
	return &metricsStub{renders: make(map[string]int), errors: make(map[string]int)}
}

func (m *metricsStub) RecordRender(trigger, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders[outcome]++
}

func (m *metricsStub) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *metricsStub) RecordLastPrice(asset string, price float64) {}

func (m *metricsStub) RecordLatency(op string, seconds float64) {}

func row(asset string, price any, pct any, signal string) models.MetricRow {
	return models.MetricRow{
		Asset:      asset,
		Price:      numeric.LooseOf(price),
		High:       numeric.LooseOf(price),
		Low:        numeric.LooseOf(price),
		Average:    numeric.LooseOf(price),
		Volatility: numeric.LooseOf("0.5"),
		PctChange:  numeric.LooseOf(pct),
		Signal:     models.Signal(signal),
	}
}

func ts(sec int) time.Time {
	return time.Unix(1700000000+int64(sec), 0).UTC()
}
