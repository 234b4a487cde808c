package di

import (
	"context"
	"fmt"
	"time"

	"PulseBoard/internal/domain/models"
	"PulseBoard/internal/domain/repository"
	"PulseBoard/internal/handler/api"
	"PulseBoard/internal/poller"
	"PulseBoard/internal/service/dashapi"
	"PulseBoard/internal/service/frames"
	"PulseBoard/internal/service/ratelimit"
	"PulseBoard/internal/service/recorder"
	"PulseBoard/internal/usecase"
	"PulseBoard/pkg/cache"
	"PulseBoard/pkg/chart"
	"PulseBoard/pkg/config"
	xhttp "PulseBoard/pkg/http"
	applogger "PulseBoard/pkg/logger"
	"PulseBoard/pkg/metrics"
	"PulseBoard/pkg/numeric"
	"PulseBoard/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideBackendClient creates the HTTP client for the metrics backend.
func ProvideBackendClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithBaseURL(cfg.Backend.BaseURL),
		xhttp.WithTimeout(cfg.Backend.Timeout),
		xhttp.WithBasicAuth(cfg.Backend.Username, cfg.Backend.Password),
	)
}

// ProvideDashAPI wraps the backend client with the dashboard endpoints.
func ProvideDashAPI(c *xhttp.Client) *dashapi.Client {
	return dashapi.NewClient(c)
}

// ProvideSources picks the data providers. When a snapshot URL is set,
// candles come from the static snapshot files instead of the live API.
func ProvideSources(cfg *config.Config, api *dashapi.Client, l *applogger.Logger) usecase.Sources {
	src := usecase.Sources{Table: api, Series: api, Candles: api}
	if cfg.Backend.SnapshotURL != "" {
		src.Candles = dashapi.NewSnapshotSource(xhttp.NewClient(
			xhttp.WithBaseURL(cfg.Backend.SnapshotURL),
			xhttp.WithTimeout(cfg.Backend.Timeout),
			xhttp.WithBasicAuth(cfg.Backend.Username, cfg.Backend.Password),
		))
		l.Info("candles served from snapshots", applogger.String("url", cfg.Backend.SnapshotURL))
	}
	return src
}

// ProvideFrameCache builds the byte cache behind the frame store: memory
// only, or memory in front of Redis.
func ProvideFrameCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	mem := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Frames.MaxSize),
		cache.WithMemoryDefaultTTL(cfg.Frames.TTL),
	}

	if cfg.Frames.Backend != "redis" {
		c := cache.NewMemoryCache(mem...)
		return c, func() { _ = c.Close() }, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cfg.Frames.Redis.Addr),
		cache.WithRedisPassword(cfg.Frames.Redis.Password),
		cache.WithRedisDB(cfg.Frames.Redis.DB),
		cache.WithRedisPrefix(cfg.Frames.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("frame cache: %w", err)
	}
	l.Info("frame cache connected", applogger.String("redis", cfg.Frames.Redis.Addr))

	c := cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Frames.MaxSize))
	return c, func() {
		if err := c.Close(); err != nil {
			l.Warn("frame cache close error", applogger.Error(err))
		}
	}, nil
}

// ProvideFrameStore exposes the cache as the dashboard's frame store.
func ProvideFrameStore(c cache.Service) repository.FrameStore {
	return frames.NewStore(c)
}

// ProvideRecorder opens the SQLite history when configured.
func ProvideRecorder(cfg *config.Config, l *applogger.Logger) (recorder.Store, func(), error) {
	if cfg.Recorder.SQLitePath == "" {
		return recorder.NewNoopRecorder(), func() {}, nil
	}

	r, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath, l)
	if err != nil {
		return nil, nil, fmt.Errorf("recorder: %w", err)
	}
	return r, func() {
		if err := r.Close(); err != nil {
			l.Warn("recorder close error", applogger.Error(err))
		}
	}, nil
}

func ProvideDomainRecorder(s recorder.Store) repository.Recorder { return s }

func ProvideRenderHistory(s recorder.Store) repository.RenderHistory { return s }

// ProvideChartBackend creates the PNG chart backend.
func ProvideChartBackend() repository.ChartBackend {
	return chart.NewBackend()
}

// ProvideFormatter creates the display number formatter for the locale.
func ProvideFormatter(cfg *config.Config) *numeric.Formatter {
	return numeric.NewFormatter(cfg.Dashboard.Locale)
}

// ProvideChartManager creates the lifecycle manager of the price chart.
func ProvideChartManager(backend repository.ChartBackend, cfg *config.Config, l *applogger.Logger) *usecase.ChartManager {
	return usecase.NewChartManager(backend, usecase.ChartManagerConfig{
		MinHeight:       cfg.Dashboard.MinChartHeight,
		RecreateSurface: cfg.Dashboard.RecreateSurface,
	}, l.With(applogger.String("region", "chart")))
}

// ProvidePanelRenderer creates the analysis panels.
func ProvidePanelRenderer(backend repository.ChartBackend, store repository.FrameStore, cfg *config.Config, l *applogger.Logger) *usecase.PanelRenderer {
	return usecase.NewPanelRenderer(backend, store, usecase.PanelConfig{
		TopN:     cfg.Dashboard.PanelTopN,
		Width:    cfg.Dashboard.ChartWidth / 2,
		Height:   cfg.Dashboard.MinChartHeight,
		FrameTTL: cfg.Frames.TTL,
	}, l.With(applogger.String("region", "panels")))
}

// ProvideDashboard assembles the dashboard use case.
func ProvideDashboard(
	sources usecase.Sources,
	charts *usecase.ChartManager,
	panels *usecase.PanelRenderer,
	store repository.FrameStore,
	rec repository.Recorder,
	m repository.Metrics,
	f *numeric.Formatter,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.Dashboard {
	return usecase.NewDashboard(sources, charts, panels, store, rec, m, f, usecase.DashboardConfig{
		DefaultResolution: models.Resolution(cfg.Dashboard.DefaultResolution),
		FineResolution:    models.Resolution(cfg.Dashboard.FineResolution),
		ChartWidth:        cfg.Dashboard.ChartWidth,
		ChartHeight:       cfg.Dashboard.ChartHeight,
		FrameTTL:          cfg.Frames.TTL,
	}, l)
}

// ProvidePoller creates and registers the table and chart timers.
func ProvidePoller(dash *usecase.Dashboard, cfg *config.Config, l *applogger.Logger) (*poller.Poller, error) {
	p := poller.New(dash, poller.Config{
		TableInterval: cfg.Dashboard.TableInterval,
		ChartInterval: cfg.Dashboard.ChartInterval,
	}, l)
	if err := p.Register(); err != nil {
		return nil, fmt.Errorf("poller: %w", err)
	}
	return p, nil
}

// ProvideLimiter bounds state-changing requests per client.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.Burst, cfg.Server.RateLimit.PerSecond)
}

// ProvideHTTPHandler creates the dashboard routes.
func ProvideHTTPHandler(l *applogger.Logger, dash *usecase.Dashboard, history repository.RenderHistory, limiter *ratelimit.Limiter) xhttp.Handler {
	return api.NewDashboardEchoHandler(l, dash, history, limiter)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, reg *prometheus.Registry) *xhttp.Server {
	path := ""
	if cfg.Metrics.Enabled {
		path = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(path, reg, reg),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, p *poller.Poller) *server.App {
	return server.New(cfg, l, srv, p)
}
