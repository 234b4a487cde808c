package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	xhttp "PulseBoard/pkg/http"
	applogger "PulseBoard/pkg/logger"
	"PulseBoard/pkg/numeric"
)

// FrameChart is the frame name the price chart is published under.
const FrameChart = "chart"

// ErrUnknownAsset is returned when selecting an asset that is not offered.
var ErrUnknownAsset = errors.New("unknown asset")

type DashboardConfig struct {
	DefaultResolution models.Resolution
	FineResolution    models.Resolution
	ChartWidth        int
	ChartHeight       int
	FrameTTL          time.Duration
}

// Sources groups the data providers a dashboard reads from.
type Sources struct {
	Table   drepo.TableSource
	Series  drepo.SeriesSource
	Candles drepo.CandleSource
}

// DashboardState is the mutable view state. It is shared between the timer
// goroutines and the HTTP handlers, so every access goes through its lock.
type DashboardState struct {
	mu             sync.RWMutex
	rows           []RenderedRow
	options        []string
	selection      models.SelectionState
	strategy       Strategy
	kpis           models.KPIs
	width          int
	height         int
	tableUpdatedAt time.Time
}

// Selection returns a copy of the current selection.
func (s *DashboardState) Selection() models.SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Viewport returns the chart region size.
func (s *DashboardState) Viewport() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// ChartInfo describes the chart currently on screen.
type ChartInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardView is a consistent snapshot of everything the dashboard shows.
type DashboardView struct {
	Rows           []RenderedRow         `json:"rows"`
	Options        []string              `json:"options"`
	Selection      models.SelectionState `json:"selection"`
	Strategy       Strategy              `json:"strategy"`
	KPIs           models.KPIs           `json:"kpis"`
	Chart          *ChartInfo            `json:"chart,omitempty"`
	State          SchedulerState        `json:"state"`
	TableUpdatedAt time.Time             `json:"table_updated_at"`
}

// Dashboard wires the table refresh and the render cycle together.
type Dashboard struct {
	sources    Sources
	frames     drepo.FrameStore
	recorder   drepo.Recorder
	metrics    drepo.Metrics
	logger     *applogger.Logger
	fmt        *numeric.Formatter
	reconciler *TableReconciler
	charts     *ChartManager
	panels     *PanelRenderer
	scheduler  *RenderScheduler
	cfg        DashboardConfig
	state      *DashboardState
}

func NewDashboard(
	sources Sources,
	charts *ChartManager,
	panels *PanelRenderer,
	frames drepo.FrameStore,
	recorder drepo.Recorder,
	metrics drepo.Metrics,
	f *numeric.Formatter,
	cfg DashboardConfig,
	l *applogger.Logger,
) *Dashboard {
	if f == nil {
		f = numeric.NewFormatter("en")
	}
	d := &Dashboard{
		sources:    sources,
		frames:     frames,
		recorder:   recorder,
		metrics:    metrics,
		logger:     l,
		fmt:        f,
		reconciler: NewTableReconciler(f),
		charts:     charts,
		panels:     panels,
		cfg:        cfg,
		state: &DashboardState{
			selection: models.SelectionState{Resolution: cfg.DefaultResolution},
			width:     cfg.ChartWidth,
			height:    cfg.ChartHeight,
		},
	}
	d.state.strategy = SelectStrategy(cfg.DefaultResolution, cfg.FineResolution)
	d.state.kpis = models.KPIs{LastPrice: placeholder}
	d.scheduler = NewRenderScheduler(d.renderCycle)
	return d
}

// RefreshTable fetches the metrics table, reconciles the view and redraws
// the analysis panels. On failure the previous table stays in place. The
// first successful refresh also draws the initial chart.
func (d *Dashboard) RefreshTable(ctx context.Context) error {
	start := time.Now()
	rows, err := d.sources.Table.FetchTable(ctx)
	d.metrics.RecordLatency("fetch_table", time.Since(start).Seconds())
	if err != nil {
		d.metrics.RecordError(errorKind(err))
		d.logger.Error("table refresh failed", applogger.Error(err))
		return fmt.Errorf("refresh table: %w", err)
	}

	d.state.mu.Lock()
	res := d.reconciler.Reconcile(TableState{
		Options:   d.state.options,
		Selection: d.state.selection.Asset,
	}, rows)
	d.state.rows = res.Rows
	d.state.options = res.Options
	d.state.selection.Asset = res.Selection
	d.state.tableUpdatedAt = time.Now()
	d.state.mu.Unlock()

	if res.OptionsRebuilt {
		d.logger.Debug("asset options rebuilt",
			applogger.Strings("assets", res.Options),
			applogger.String("selection", res.Selection),
		)
	}

	if d.panels != nil {
		d.panels.Render(ctx, rows)
	}

	if err := d.recorder.RecordTable(ctx, drepo.TableEvent{
		At:     time.Now(),
		Rows:   len(rows),
		Assets: res.Options,
	}); err != nil {
		d.logger.Warn("record table failed", applogger.Error(err))
	}

	if d.charts.Current() == nil {
		_, _ = d.RequestRender(ctx, TriggerTableLoaded)
	}
	return nil
}

// RequestRender asks for a render cycle. Overlapping requests are dropped.
// Failures are logged and returned; the previous chart stays on screen.
func (d *Dashboard) RequestRender(ctx context.Context, trigger Trigger) (Outcome, error) {
	start := time.Now()
	outcome, err := d.scheduler.RequestRender(ctx, trigger)
	d.metrics.RecordRender(string(trigger), string(outcome))

	if outcome == OutcomeSkipped {
		d.logger.Debug("render skipped, another render in flight", applogger.String("trigger", string(trigger)))
		return outcome, nil
	}
	d.metrics.RecordLatency("render", time.Since(start).Seconds())

	if err != nil {
		d.metrics.RecordError(errorKind(err))
		d.logger.Error("render failed",
			applogger.String("trigger", string(trigger)),
			applogger.Error(err),
		)
	}
	return outcome, err
}

// SelectAsset changes the selected asset and requests a render.
func (d *Dashboard) SelectAsset(ctx context.Context, asset string) (Outcome, error) {
	d.state.mu.Lock()
	if !slices.Contains(d.state.options, asset) {
		d.state.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}
	d.state.selection.Asset = asset
	d.state.mu.Unlock()

	return d.RequestRender(ctx, TriggerSelectionChanged)
}

// SelectResolution changes the resolution and requests a render. Values
// outside the supported set are accepted and draw an empty line.
func (d *Dashboard) SelectResolution(ctx context.Context, res models.Resolution) (Outcome, error) {
	d.state.mu.Lock()
	d.state.selection.Resolution = res
	d.state.mu.Unlock()

	return d.RequestRender(ctx, TriggerResolutionChanged)
}

// SetViewport records the chart region size used by the next render.
func (d *Dashboard) SetViewport(width, height int) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()
	d.state.width = width
	d.state.height = height
}

// View returns a snapshot of the dashboard.
func (d *Dashboard) View() DashboardView {
	d.state.mu.RLock()
	v := DashboardView{
		Rows:           slices.Clone(d.state.rows),
		Options:        slices.Clone(d.state.options),
		Selection:      d.state.selection,
		Strategy:       d.state.strategy,
		KPIs:           d.state.kpis,
		TableUpdatedAt: d.state.tableUpdatedAt,
	}
	d.state.mu.RUnlock()

	if v.Rows == nil {
		v.Rows = []RenderedRow{}
	}
	if v.Options == nil {
		v.Options = []string{}
	}
	if h := d.charts.Shown(); h != nil {
		w, ht := h.Size()
		v.Chart = &ChartInfo{ID: h.ID, Title: h.Spec.Title, Width: w, Height: ht, CreatedAt: h.CreatedAt}
	}
	v.State = d.scheduler.State()
	return v
}

// Frame returns a published image by name. When the store no longer holds
// it, the last image drawn in that region is served instead.
func (d *Dashboard) Frame(ctx context.Context, name string) ([]byte, error) {
	png, err := d.frames.Get(ctx, name)
	if errors.Is(err, drepo.ErrFrameNotFound) {
		if last := d.lastDrawn(name); last != nil {
			return last, nil
		}
	}
	return png, err
}

func (d *Dashboard) lastDrawn(name string) []byte {
	if name == FrameChart {
		return d.charts.Shown().PNG()
	}
	if d.panels != nil {
		return d.panels.Shown(name)
	}
	return nil
}

// renderCycle is one Idle -> Rendering -> Idle pass. It works against a
// snapshot of the selection taken at the start.
func (d *Dashboard) renderCycle(ctx context.Context, trigger Trigger) (outcome Outcome, err error) {
	start := time.Now()
	sel := d.state.Selection()
	if sel.Asset == "" {
		return OutcomeNoSelection, nil
	}

	strategy := SelectStrategy(sel.Resolution, d.cfg.FineResolution)
	var spec models.ChartSpec

	defer func() {
		ev := drepo.RenderEvent{
			At:         start,
			Trigger:    string(trigger),
			Outcome:    string(outcome),
			Asset:      sel.Asset,
			Resolution: string(sel.Resolution),
			Strategy:   string(strategy.Kind),
			Points:     len(spec.Points) + len(spec.Candles),
			Duration:   time.Since(start),
		}
		if err != nil {
			ev.Err = err.Error()
		}
		if rerr := d.recorder.RecordRender(ctx, ev); rerr != nil {
			d.logger.Warn("record render failed", applogger.Error(rerr))
		}
	}()

	spec, err = d.load(ctx, sel, strategy)
	if err != nil {
		return OutcomeFailed, err
	}

	kpis := KPIsFor(spec, d.fmt.Display)
	kpis.UpdatedAt = time.Now()
	d.state.mu.Lock()
	d.state.strategy = strategy
	d.state.kpis = kpis
	w, h := d.state.width, d.state.height
	d.state.mu.Unlock()

	if spec.Empty() {
		return OutcomeEmpty, nil
	}
	if last, ok := lastPrice(spec); ok {
		d.metrics.RecordLastPrice(sel.Asset, last)
	}

	d.charts.Release(d.charts.Current())
	handle, err := d.charts.Acquire(spec, w, h)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("acquire chart: %w", err)
	}

	if err := d.frames.Set(ctx, FrameChart, handle.PNG(), d.cfg.FrameTTL); err != nil {
		return OutcomeFailed, fmt.Errorf("publish chart: %w", err)
	}
	return OutcomeRendered, nil
}

// load fetches the data the strategy needs. An unknown resolution fetches
// nothing.
func (d *Dashboard) load(ctx context.Context, sel models.SelectionState, s Strategy) (models.ChartSpec, error) {
	if !s.Known {
		return BuildChartSpec(sel, s, nil, nil), nil
	}

	start := time.Now()
	switch s.Kind {
	case Discrete:
		candles, err := d.sources.Candles.FetchCandles(ctx, sel.Asset, sel.Resolution)
		d.metrics.RecordLatency("fetch_candles", time.Since(start).Seconds())
		if err != nil {
			return models.ChartSpec{}, err
		}
		return BuildChartSpec(sel, s, nil, candles), nil
	default:
		points, err := d.sources.Series.FetchSeries(ctx, sel.Asset, sel.Resolution)
		d.metrics.RecordLatency("fetch_series", time.Since(start).Seconds())
		if err != nil {
			return models.ChartSpec{}, err
		}
		return BuildChartSpec(sel, s, points, nil), nil
	}
}

func lastPrice(spec models.ChartSpec) (float64, bool) {
	if n := len(spec.Candles); n > 0 {
		return spec.Candles[n-1].Close, true
	}
	if n := len(spec.Points); n > 0 {
		return spec.Points[n-1].Price, true
	}
	return 0, false
}

func errorKind(err error) string {
	var te *xhttp.TransportError
	var pe *xhttp.PayloadError
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &pe):
		return "payload"
	default:
		return "render"
	}
}
