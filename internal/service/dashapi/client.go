// Package dashapi fetches the metrics table, price series and candles from
// the dashboard backend. Every call is a fresh request; nothing is cached or
// retried here.
package dashapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"PulseBoard/internal/domain/models"
	xhttp "PulseBoard/pkg/http"
	"PulseBoard/pkg/numeric"
	"PulseBoard/pkg/util"
)

type Client struct {
	http *xhttp.Client
}

func NewClient(c *xhttp.Client) *Client {
	return &Client{http: c}
}

type tableResponse struct {
	Rows *[]models.MetricRow `json:"rows"`
}

type pointDTO struct {
	TS    numeric.Loose `json:"ts"`
	Price numeric.Loose `json:"price"`
}

type seriesResponse struct {
	Crypto     string      `json:"crypto"`
	Resolution string      `json:"resolution"`
	Points     *[]pointDTO `json:"points"`
}

type candleDTO struct {
	TS    numeric.Loose `json:"ts"`
	Open  numeric.Loose `json:"open"`
	High  numeric.Loose `json:"high"`
	Low   numeric.Loose `json:"low"`
	Close numeric.Loose `json:"close"`
}

type candlesResponse struct {
	Candles *[]candleDTO `json:"candles"`
}

// FetchTable returns the rows of the metrics table in backend order.
func (c *Client) FetchTable(ctx context.Context) ([]models.MetricRow, error) {
	const path = "/api/table"

	var resp tableResponse
	if err := c.http.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch table: %w", err)
	}
	if resp.Rows == nil {
		return nil, missingKey(c.http.URL(path), "rows")
	}
	return *resp.Rows, nil
}

// FetchSeries returns the price series of asset, ascending by timestamp.
func (c *Client) FetchSeries(ctx context.Context, asset string, res models.Resolution) ([]models.SeriesPoint, error) {
	path := fmt.Sprintf("/api/arrays/%s/%s", url.PathEscape(string(res)), url.PathEscape(asset))

	var resp seriesResponse
	if err := c.http.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch series %s/%s: %w", asset, res, err)
	}
	if resp.Points == nil {
		return nil, missingKey(c.http.URL(path), "points")
	}

	points := make([]models.SeriesPoint, 0, len(*resp.Points))
	for _, p := range *resp.Points {
		points = append(points, models.SeriesPoint{
			Timestamp: Timestamp(p.TS),
			Price:     p.Price.Float(),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}

// FetchCandles returns the OHLC candles of asset, ascending by timestamp.
func (c *Client) FetchCandles(ctx context.Context, asset string, res models.Resolution) ([]models.Candle, error) {
	path := fmt.Sprintf("/api/ohlc/%s/%s", url.PathEscape(string(res)), url.PathEscape(asset))
	candles, err := fetchCandles(ctx, c.http, path)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s/%s: %w", asset, res, err)
	}
	return candles, nil
}

func fetchCandles(ctx context.Context, hc *xhttp.Client, path string) ([]models.Candle, error) {
	var resp candlesResponse
	if err := hc.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Candles == nil {
		return nil, missingKey(hc.URL(path), "candles")
	}

	candles := make([]models.Candle, 0, len(*resp.Candles))
	for _, c := range *resp.Candles {
		candles = append(candles, models.Candle{
			Timestamp: Timestamp(c.TS),
			Open:      c.Open.Float(),
			High:      c.High.Float(),
			Low:       c.Low.Float(),
			Close:     c.Close.Float(),
		})
	}
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

func missingKey(u, key string) error {
	return &xhttp.PayloadError{URL: u, Err: errors.New("missing " + key)}
}

// Timestamp reads a backend timestamp. Numbers are unix seconds, or unix
// milliseconds when large enough; strings may also be RFC 3339.
func Timestamp(v numeric.Loose) time.Time {
	if s, ok := v.Raw().(string); ok {
		if t, ok := util.ParseTime(s); ok {
			return t.UTC()
		}
	}
	return util.UnixFloat(v.Float())
}
