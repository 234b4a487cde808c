package dashapi

import (
	"context"
	"fmt"
	"net/url"

	"PulseBoard/internal/domain/models"
	xhttp "PulseBoard/pkg/http"
)

// SnapshotSource reads pre-generated candle files named
// {asset}_{resolution}.json from a static location.
type SnapshotSource struct {
	http *xhttp.Client
}

// NewSnapshotSource expects c to carry the snapshot base URL.
func NewSnapshotSource(c *xhttp.Client) *SnapshotSource {
	return &SnapshotSource{http: c}
}

func (s *SnapshotSource) FetchCandles(ctx context.Context, asset string, res models.Resolution) ([]models.Candle, error) {
	name := url.PathEscape(fmt.Sprintf("%s_%s.json", asset, res))
	candles, err := fetchCandles(ctx, s.http, name)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot %s: %w", name, err)
	}
	return candles, nil
}
