// Package chart draws dashboard charts to PNG with go-chart. Charts are
// registered against the surface they were drawn on; a surface carries at
// most one live chart at a time.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"PulseBoard/internal/domain/models"
	"PulseBoard/internal/domain/repository"

	"github.com/google/uuid"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var errNothingToDraw = errors.New("nothing to draw")

// Backend is a chart factory with a registry of live charts keyed by
// surface id.
type Backend struct {
	mu       sync.Mutex
	registry map[string]*Chart
}

func NewBackend() *Backend {
	return &Backend{registry: make(map[string]*Chart)}
}

// Surface is a sized drawing region.
type Surface struct {
	id        string
	width     int
	height    int
	discarded bool
}

func (s *Surface) ID() string { return s.id }

func (s *Surface) Size() (int, int) { return s.width, s.height }

func (s *Surface) Discard() { s.discarded = true }

// Chart is a rendered chart bound to one surface.
type Chart struct {
	backend   *Backend
	surfaceID string
	png       []byte

	mu        sync.Mutex
	destroyed bool
}

func (c *Chart) PNG() []byte { return c.png }

// Destroy unregisters the chart. A second call reports ErrChartDestroyed.
func (c *Chart) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return repository.ErrChartDestroyed
	}
	c.destroyed = true
	c.backend.unregister(c)
	return nil
}

func (b *Backend) NewSurface(width, height int) (repository.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	return &Surface{id: uuid.NewString(), width: width, height: height}, nil
}

// NewChart draws spec onto s. It fails when s is discarded or still has a
// registered chart.
func (b *Backend) NewChart(s repository.Surface, spec models.ChartSpec) (repository.Chart, error) {
	if sf, ok := s.(*Surface); ok && sf.discarded {
		return nil, fmt.Errorf("surface %s is discarded", s.ID())
	}

	b.mu.Lock()
	if _, live := b.registry[s.ID()]; live {
		b.mu.Unlock()
		return nil, fmt.Errorf("new chart on %s: %w", s.ID(), repository.ErrSurfaceRegistered)
	}
	c := &Chart{backend: b, surfaceID: s.ID()}
	b.registry[s.ID()] = c
	b.mu.Unlock()

	width, height := s.Size()
	png, err := draw(spec, width, height)
	if err != nil {
		b.unregister(c)
		return nil, fmt.Errorf("draw %s chart: %w", spec.Kind, err)
	}
	c.png = png
	return c, nil
}

// Live reports how many charts are currently registered.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registry)
}

func (b *Backend) unregister(c *Chart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.registry[c.surfaceID] == c {
		delete(b.registry, c.surfaceID)
	}
}

func draw(spec models.ChartSpec, width, height int) ([]byte, error) {
	if spec.Empty() {
		return nil, errNothingToDraw
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case models.ChartLine:
		err = lineChart(spec, width, height).Render(gochart.PNG, &buf)
	case models.ChartOHLC:
		err = ohlcChart(spec, width, height).Render(gochart.PNG, &buf)
	case models.ChartBar:
		err = barChart(spec, width, height).Render(gochart.PNG, &buf)
	case models.ChartPie:
		err = pieChart(spec, width, height).Render(gochart.PNG, &buf)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
