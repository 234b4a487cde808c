package usecase

import (
	"errors"
	"testing"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	applogger "PulseBoard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineSpec() models.ChartSpec {
	return models.ChartSpec{
		Kind:   models.ChartLine,
		Points: []models.SeriesPoint{{Timestamp: ts(0), Price: 1}},
	}
}

func TestChartManagerReleaseIsIdempotent(t *testing.T) {
	backend := newFakeBackend()
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())

	h, err := m.Acquire(lineSpec(), 800, 400)
	require.NoError(t, err)

	m.Release(h)
	m.Release(h)
	m.Release(nil)

	assert.Nil(t, m.Current())
	assert.Equal(t, 1, backend.destroyed)
}

func TestChartManagerReleaseToleratesBackendDestroyed(t *testing.T) {
	backend := newFakeBackend()
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())

	h, err := m.Acquire(lineSpec(), 800, 400)
	require.NoError(t, err)
	require.NoError(t, h.chart.Destroy())

	m.Release(h)
	assert.Nil(t, m.Current())
}

func TestChartManagerAcquireRequiresRelease(t *testing.T) {
	m := NewChartManager(newFakeBackend(), ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())

	h, err := m.Acquire(lineSpec(), 800, 400)
	require.NoError(t, err)

	_, err = m.Acquire(lineSpec(), 800, 400)
	assert.ErrorIs(t, err, ErrChartLive)

	m.Release(h)
	_, err = m.Acquire(lineSpec(), 800, 400)
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Constructed())
}

func TestChartManagerClampsHeight(t *testing.T) {
	backend := newFakeBackend()
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())

	h, err := m.Acquire(lineSpec(), 640, 0)
	require.NoError(t, err)

	w, ht := h.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 240, ht)
	assert.Equal(t, 240, backend.lastSpec().Height)
}

func TestChartManagerRecreatesSurfaceForLeakyBackend(t *testing.T) {
	backend := newFakeBackend()
	backend.leaky = true
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())

	for i := 0; i < 5; i++ {
		m.Release(m.Current())
		_, err := m.Acquire(lineSpec(), 800, 400)
		require.NoError(t, err)
	}

	assert.Equal(t, 5, m.Constructed())
	assert.Len(t, backend.surfaces, 5)
	for _, s := range backend.surfaces[:4] {
		assert.True(t, s.discarded)
	}
}

func TestChartManagerReusedSurfaceCollidesOnLeakyBackend(t *testing.T) {
	backend := newFakeBackend()
	backend.leaky = true
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240}, applogger.Nop())

	h, err := m.Acquire(lineSpec(), 800, 400)
	require.NoError(t, err)
	m.Release(h)

	_, err = m.Acquire(lineSpec(), 800, 400)
	assert.ErrorIs(t, err, drepo.ErrSurfaceRegistered)
	assert.Nil(t, m.Current())
}

func TestChartManagerReusesSurfaceOnCleanBackend(t *testing.T) {
	backend := newFakeBackend()
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240}, applogger.Nop())

	for i := 0; i < 3; i++ {
		m.Release(m.Current())
		_, err := m.Acquire(lineSpec(), 800, 400)
		require.NoError(t, err)
	}
	assert.Len(t, backend.surfaces, 1)

	m.Release(m.Current())
	_, err := m.Acquire(lineSpec(), 1024, 400)
	require.NoError(t, err)
	assert.Len(t, backend.surfaces, 2)
}

func TestChartManagerShownSurvivesFailedAcquire(t *testing.T) {
	backend := newFakeBackend()
	m := NewChartManager(backend, ChartManagerConfig{MinHeight: 240, RecreateSurface: true}, applogger.Nop())
	assert.Nil(t, m.Shown())

	h, err := m.Acquire(lineSpec(), 800, 400)
	require.NoError(t, err)
	m.Release(h)

	backend.fail = errors.New("canvas lost")
	_, err = m.Acquire(lineSpec(), 800, 400)
	require.Error(t, err)

	assert.Nil(t, m.Current())
	require.Same(t, h, m.Shown())
	assert.Equal(t, []byte("png:surface-1"), m.Shown().PNG())
}
