// Package marketdata fetches the external inputs the analysis core
// consumes: price series, economic series and sentiment snapshots. The
// core treats everything returned here as opaque, read-only input.
package marketdata

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Interval selects the bar size of a price series.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// PriceProvider fetches historical OHLCV series per instrument. A zero
// start or end time leaves that bound open.
type PriceProvider interface {
	GetPriceSeries(ctx context.Context, ticker string, start, end time.Time, interval Interval) (*types.PriceSeries, error)
}

// EconomicProvider fetches named economic series as date/value pairs.
type EconomicProvider interface {
	GetSeries(ctx context.Context, seriesID string, start, end time.Time, frequency string) (*types.EconomicSeries, error)
}

// SentimentProvider fetches the current sentiment snapshot including
// history when the source offers one.
type SentimentProvider interface {
	GetSnapshot(ctx context.Context) (*types.SentimentSnapshot, error)
}

// defaultTimeout bounds every outgoing request when the caller supplies
// no client of their own.
const defaultTimeout = 30 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// fetch performs a GET with optional headers and returns the response
// body, treating any non-2xx status as a fetch failure.
func fetch(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to build request", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "request to %s failed", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to read response body", err)
	}

	return body, nil
}
