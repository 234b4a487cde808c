package api

import (
	"context"
	"errors"

	"PulseBoard/internal/domain/models"
	drepo "PulseBoard/internal/domain/repository"
	"PulseBoard/internal/usecase"
	xhttp "PulseBoard/pkg/http"
	"PulseBoard/pkg/http/middleware"
	xlogger "PulseBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardService is the part of the dashboard the HTTP surface drives.
type DashboardService interface {
	View() usecase.DashboardView
	Frame(ctx context.Context, name string) ([]byte, error)
	SelectAsset(ctx context.Context, asset string) (usecase.Outcome, error)
	SelectResolution(ctx context.Context, res models.Resolution) (usecase.Outcome, error)
	SetViewport(width, height int)
}

// RenderResult reports what a state change did to the chart.
type RenderResult struct {
	Outcome   usecase.Outcome       `json:"outcome"`
	Error     string                `json:"error,omitempty"`
	Selection models.SelectionState `json:"selection"`
}

// DashboardEchoHandler serves the dashboard view, its images and the
// selection controls.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	dash    DashboardService
	history drepo.RenderHistory
	limiter middleware.Limiter
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash DashboardService, history drepo.RenderHistory, limiter middleware.Limiter) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash, history: history, limiter: limiter}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/view", h.View)
	g.GET("/chart.png", h.Chart)
	g.GET("/panels/:name", h.Panel)
	g.GET("/renders", h.Renders)

	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, middleware.RateLimit(h.limiter))
	}
	g.PUT("/selection", h.SelectAsset, mw...)
	g.PUT("/resolution", h.SelectResolution, mw...)
	g.PUT("/viewport", h.Viewport, mw...)
}

func (h *DashboardEchoHandler) View(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.View())
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	return h.frame(c, usecase.FrameChart)
}

func (h *DashboardEchoHandler) Panel(c echo.Context) error {
	req := &models.PanelRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.frame(c, usecase.PanelFrame(req.Name))
}

func (h *DashboardEchoHandler) Renders(c echo.Context) error {
	req := &models.RenderHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	events, err := h.history.RecentRenders(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("render history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("render history unavailable"))
	}
	return xhttp.SuccessResponse(c, events)
}

func (h *DashboardEchoHandler) SelectAsset(c echo.Context) error {
	req := &models.SelectAssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	outcome, err := h.dash.SelectAsset(c.Request().Context(), req.Asset)
	if errors.Is(err, usecase.ErrUnknownAsset) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %q is not offered", req.Asset).WithParam("asset", req.Asset))
	}
	return h.renderResult(c, outcome, err)
}

func (h *DashboardEchoHandler) SelectResolution(c echo.Context) error {
	req := &models.SelectResolutionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	outcome, err := h.dash.SelectResolution(c.Request().Context(), models.Resolution(req.Resolution))
	return h.renderResult(c, outcome, err)
}

func (h *DashboardEchoHandler) Viewport(c echo.Context) error {
	req := &models.ViewportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.dash.SetViewport(req.Width, req.Height)
	return xhttp.SuccessResponse(c, req)
}

func (h *DashboardEchoHandler) frame(c echo.Context, name string) error {
	png, err := h.dash.Frame(c.Request().Context(), name)
	if errors.Is(err, drepo.ErrFrameNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("frame %q not rendered yet", name))
	}
	if err != nil {
		h.logger.Error("frame load error", xlogger.String("frame", name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("frame unavailable"))
	}
	return xhttp.ImageResponse(c, png)
}

// renderResult reports a failed render in the body; the selection change
// itself has been applied and the previous chart stays on screen.
func (h *DashboardEchoHandler) renderResult(c echo.Context, outcome usecase.Outcome, err error) error {
	res := RenderResult{Outcome: outcome, Selection: h.dash.View().Selection}
	if err != nil {
		res.Error = err.Error()
	}
	return xhttp.SuccessResponse(c, res)
}
