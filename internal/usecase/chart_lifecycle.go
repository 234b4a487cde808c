package usecase

import (
	"errors"
	"sync"
	"time"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	applogger "PulseBoard/pkg/logger"

	"github.com/google/uuid"
)

// ErrChartLive is returned by Acquire while the previous chart has not been
// released.
var ErrChartLive = errors.New("chart still live; release it before acquiring")

// ChartHandle is an opaque reference to one live chart.
type ChartHandle struct {
	ID        string
	Spec      models.ChartSpec
	CreatedAt time.Time

	surface  drepo.Surface
	chart    drepo.Chart
	png      []byte
	released bool
}

// PNG returns the image the chart was drawn as. It stays readable after
// the chart is released.
func (h *ChartHandle) PNG() []byte {
	if h == nil {
		return nil
	}
	return h.png
}

// Size is the surface size the chart was drawn at.
func (h *ChartHandle) Size() (int, int) {
	return h.surface.Size()
}

// ChartManagerConfig tunes a ChartManager.
type ChartManagerConfig struct {
	// MinHeight is used whenever the layout region reports a smaller height.
	MinHeight int
	// RecreateSurface discards the surface on every acquire so that a
	// backend keyed by surface id never sees the same id twice.
	RecreateSurface bool
}

// ChartManager owns the single chart drawn in one layout region.
type ChartManager struct {
	backend drepo.ChartBackend
	cfg     ChartManagerConfig
	logger  *applogger.Logger

	mu          sync.Mutex
	surface     drepo.Surface
	live        *ChartHandle
	shown       *ChartHandle
	constructed int
}

func NewChartManager(backend drepo.ChartBackend, cfg ChartManagerConfig, l *applogger.Logger) *ChartManager {
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = 1
	}
	return &ChartManager{backend: backend, cfg: cfg, logger: l}
}

// Release tears down h. It is safe to call with nil, on an already released
// handle, and on a chart the backend has already destroyed.
func (m *ChartManager) Release(h *ChartHandle) {
	if h == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if h.released {
		return
	}
	h.released = true

	if err := h.chart.Destroy(); err != nil && !errors.Is(err, drepo.ErrChartDestroyed) {
		m.logger.Warn("chart destroy failed", applogger.String("chart_id", h.ID), applogger.Error(err))
	}
	if m.live == h {
		m.live = nil
	}
}

// Acquire constructs exactly one new chart for spec at the given region
// size. The previous chart must have been released.
func (m *ChartManager) Acquire(spec models.ChartSpec, width, height int) (*ChartHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.live != nil {
		return nil, ErrChartLive
	}

	if height < m.cfg.MinHeight {
		height = m.cfg.MinHeight
	}
	if width <= 0 {
		width = 1
	}
	spec.Width, spec.Height = width, height

	surface, err := m.surfaceFor(width, height)
	if err != nil {
		return nil, err
	}

	chart, err := m.backend.NewChart(surface, spec)
	if err != nil {
		return nil, err
	}

	h := &ChartHandle{
		ID:        uuid.NewString(),
		Spec:      spec,
		CreatedAt: time.Now(),
		surface:   surface,
		chart:     chart,
		png:       chart.PNG(),
	}
	m.live = h
	m.shown = h
	m.constructed++
	return h, nil
}

// surfaceFor returns a fresh surface when recreating, or when the reused
// one no longer has the requested size.
func (m *ChartManager) surfaceFor(width, height int) (drepo.Surface, error) {
	if m.surface != nil && !m.cfg.RecreateSurface {
		if w, h := m.surface.Size(); w == width && h == height {
			return m.surface, nil
		}
	}
	if m.surface != nil {
		m.surface.Discard()
		m.surface = nil
	}
	s, err := m.backend.NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	m.surface = s
	return s, nil
}

// Current returns the live chart, or nil.
func (m *ChartManager) Current() *ChartHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// Shown returns the last chart drawn in the region, released or not. A
// failed release/acquire cycle leaves the previous one in place.
func (m *ChartManager) Shown() *ChartHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Constructed counts charts built over the manager's lifetime.
func (m *ChartManager) Constructed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constructed
}
