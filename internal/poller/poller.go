package poller

import (
	"context"
	"fmt"
	"time"

	"PulseBoard/internal/usecase"
	applogger "PulseBoard/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Dashboard is what the timers drive.
type Dashboard interface {
	RefreshTable(ctx context.Context) error
	RequestRender(ctx context.Context, trigger usecase.Trigger) (usecase.Outcome, error)
}

type Config struct {
	TableInterval time.Duration
	ChartInterval time.Duration
}

// Poller runs the table refresh and the chart render on independent
// cadences. The two timers are not coordinated with each other.
type Poller struct {
	cron   *cron.Cron
	dash   Dashboard
	cfg    Config
	logger *applogger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(dash Dashboard, cfg Config, l *applogger.Logger) *Poller {
	cl := cronLogger{l: l}
	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		dash:   dash,
		cfg:    cfg,
		logger: l,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds both timers. A table refresh still running when its next
// tick fires is skipped; chart ticks always reach the render scheduler,
// which drops them itself while a render is in flight.
func (p *Poller) Register() error {
	if p.cfg.TableInterval <= 0 || p.cfg.ChartInterval <= 0 {
		return fmt.Errorf("poller intervals must be positive: table=%s chart=%s", p.cfg.TableInterval, p.cfg.ChartInterval)
	}
	cl := cronLogger{l: p.logger}

	table := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(p.refreshTable))
	if _, err := p.cron.AddJob(every(p.cfg.TableInterval), table); err != nil {
		return fmt.Errorf("register table job: %w", err)
	}
	if _, err := p.cron.AddFunc(every(p.cfg.ChartInterval), p.renderChart); err != nil {
		return fmt.Errorf("register chart job: %w", err)
	}
	return nil
}

// Start runs one table refresh right away, then starts the timers.
func (p *Poller) Start() {
	p.RunTableNow()
	p.cron.Start()
	p.logger.Info("poller started",
		applogger.Duration("table_interval", p.cfg.TableInterval),
		applogger.Duration("chart_interval", p.cfg.ChartInterval),
	)
}

// Stop cancels in-flight fetches and waits for running jobs to return.
func (p *Poller) Stop() {
	p.cancel()
	<-p.cron.Stop().Done()
	p.logger.Info("poller stopped")
}

// RunTableNow executes the table job immediately.
func (p *Poller) RunTableNow() {
	p.refreshTable()
}

func (p *Poller) refreshTable() {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout(p.cfg.TableInterval))
	defer cancel()

	// Errors are logged by the dashboard; the previous table stays.
	_ = p.dash.RefreshTable(ctx)
}

func (p *Poller) renderChart() {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout(p.cfg.ChartInterval))
	defer cancel()

	_, _ = p.dash.RequestRender(ctx, usecase.TriggerTimer)
}

func (p *Poller) jobTimeout(interval time.Duration) time.Duration {
	if interval < time.Second {
		return time.Second
	}
	return interval
}

func every(d time.Duration) string {
	return fmt.Sprintf("@every %s", d)
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *applogger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, pairs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(pairs(keysAndValues), applogger.Error(err))...)
}

func pairs(kv []interface{}) []applogger.Field {
	fields := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, applogger.Any(key, kv[i+1]))
	}
	return fields
}
