//go:build wireinject
// +build wireinject

package di

import (
	"PulseBoard/internal/usecase"
	"PulseBoard/pkg/config"
	"PulseBoard/pkg/server"

	"github.com/google/wire"
)

var dashboardSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,

	// Infrastructure clients
	ProvideBackendClient,
	ProvideDashAPI,
	ProvideSources,
	ProvideFrameCache,
	ProvideFrameStore,
	ProvideRecorder,
	ProvideDomainRecorder,
	ProvideChartBackend,
	ProvideFormatter,

	// Use cases
	ProvideChartManager,
	ProvidePanelRenderer,
	ProvideDashboard,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		dashboardSet,
		ProvideRenderHistory,
		ProvidePoller,
		ProvideLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeDashboard wires the dashboard alone, for one-shot renders.
func InitializeDashboard(cfg *config.Config) (*usecase.Dashboard, func(), error) {
	wire.Build(dashboardSet)
	return nil, nil, nil
}
