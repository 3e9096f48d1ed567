package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// yahooBaseURL is the chart endpoint of the public Yahoo Finance API.
const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooClient fetches historical price series from Yahoo Finance.
type YahooClient struct {
	baseURL string
	client  *http.Client
}

// YahooOption customizes a YahooClient.
type YahooOption func(*YahooClient)

// WithYahooBaseURL overrides the endpoint, mainly for tests.
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(c *YahooClient) { c.baseURL = baseURL }
}

// WithYahooHTTPClient overrides the underlying HTTP client.
func WithYahooHTTPClient(client *http.Client) YahooOption {
	return func(c *YahooClient) { c.client = client }
}

// NewYahooClient creates a Yahoo Finance price provider.
func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		baseURL: yahooBaseURL,
		client:  defaultHTTPClient(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency       string  `json:"currency"`
				Symbol         string  `json:"symbol"`
				ExchangeName   string  `json:"exchangeName"`
				InstrumentType string  `json:"instrumentType"`
				RegularPrice   float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetPriceSeries implements PriceProvider. Bars with a missing close
// are dropped so the parallel slices stay aligned.
func (c *YahooClient) GetPriceSeries(ctx context.Context, ticker string, start, end time.Time, interval Interval) (*types.PriceSeries, error) {
	query := url.Values{}
	query.Set("interval", string(interval))

	if !start.IsZero() {
		query.Set("period1", fmt.Sprintf("%d", start.Unix()))
	}

	if !end.IsZero() {
		query.Set("period2", fmt.Sprintf("%d", end.Unix()))
	}

	if start.IsZero() && end.IsZero() {
		query.Set("range", "5y")
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ticker), query.Encode())

	body, err := fetch(ctx, c.client, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse chart response for %s", ticker)
	}

	if len(parsed.Chart.Result) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no chart data for %s", ticker)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no quote data for %s", ticker)
	}

	quote := result.Indicators.Quote[0]

	series := &types.PriceSeries{
		Ticker:         result.Meta.Symbol,
		Currency:       result.Meta.Currency,
		ExchangeName:   result.Meta.ExchangeName,
		InstrumentType: result.Meta.InstrumentType,
		Timestamps:     nil,
		Open:           nil,
		High:           nil,
		Low:            nil,
		Close:          nil,
		Volume:         nil,
	}

	if series.Ticker == "" {
		series.Ticker = ticker
	}

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		series.Timestamps = append(series.Timestamps, time.Unix(ts, 0).UTC())
		series.Open = append(series.Open, deref(at(quote.Open, i)))
		series.High = append(series.High, deref(at(quote.High, i)))
		series.Low = append(series.Low, deref(at(quote.Low, i)))
		series.Close = append(series.Close, *quote.Close[i])
		series.Volume = append(series.Volume, deref(at(quote.Volume, i)))
	}

	return series, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
