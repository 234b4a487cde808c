package models

// SelectAssetRequest is the body of PUT /api/selection.
type SelectAssetRequest struct {
	Asset string `json:"asset" validate:"required"`
}

// SelectResolutionRequest is the body of PUT /api/resolution.
type SelectResolutionRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=second minute hour day"`
}

// ViewportRequest is the body of PUT /api/viewport. A zero height falls back
// to the minimum chart height.
type ViewportRequest struct {
	Width  int `json:"width" validate:"min=1,max=8192"`
	Height int `json:"height" validate:"min=0,max=8192"`
}

// PanelRequest selects one analysis panel image.
type PanelRequest struct {
	Name string `param:"name" json:"name" validate:"required,oneof=volatility gainers signals"`
}

// RenderHistoryRequest pages the render history.
type RenderHistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"min=1,max=500"`
}
