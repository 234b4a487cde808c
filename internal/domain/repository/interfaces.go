package repository

import (
	"context"
	"errors"
	"time"

	"PulseBoard/internal/domain/models"
)

var (
	// ErrChartDestroyed is returned by Chart.Destroy when the chart was
	// already torn down.
	ErrChartDestroyed = errors.New("chart already destroyed")
	// ErrSurfaceRegistered is returned when a surface still has a live chart.
	ErrSurfaceRegistered = errors.New("surface already has a chart registered")
	// ErrFrameNotFound is returned by FrameStore.Get for unknown frames.
	ErrFrameNotFound = errors.New("frame not found")
)

type TableSource interface {
	FetchTable(ctx context.Context) ([]models.MetricRow, error)
}

type SeriesSource interface {
	FetchSeries(ctx context.Context, asset string, res models.Resolution) ([]models.SeriesPoint, error)
}

type CandleSource interface {
	FetchCandles(ctx context.Context, asset string, res models.Resolution) ([]models.Candle, error)
}

// Surface is a drawing region owned by a chart backend.
type Surface interface {
	ID() string
	Size() (width, height int)
	Discard()
}

// Chart is a constructed chart bound to a surface.
type Chart interface {
	PNG() []byte
	Destroy() error
}

type ChartBackend interface {
	NewSurface(width, height int) (Surface, error)
	NewChart(s Surface, spec models.ChartSpec) (Chart, error)
}

// FrameStore keeps the latest rendered images for serving.
type FrameStore interface {
	Set(ctx context.Context, name string, png []byte, ttl time.Duration) error
	Get(ctx context.Context, name string) ([]byte, error)
}

type Metrics interface {
	RecordRender(trigger, outcome string)
	RecordError(kind string)
	RecordLastPrice(asset string, price float64)
	RecordLatency(op string, seconds float64)
}

type TableEvent struct {
	At     time.Time
	Rows   int
	Assets []string
}

type RenderEvent struct {
	At         time.Time
	Trigger    string
	Outcome    string
	Asset      string
	Resolution string
	Strategy   string
	Points     int
	Duration   time.Duration
	Err        string
}

// Recorder keeps a history of table refreshes and render cycles.
type Recorder interface {
	RecordTable(ctx context.Context, ev TableEvent) error
	RecordRender(ctx context.Context, ev RenderEvent) error
	Close() error
}

// RenderHistory lists recorded render cycles, newest first.
type RenderHistory interface {
	RecentRenders(ctx context.Context, limit int) ([]RenderEvent, error)
}
