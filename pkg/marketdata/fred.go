package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// fredBaseURL is the observations endpoint of the FRED API.
const fredBaseURL = "https://api.stlouisfed.org/fred/series/observations"

// fredDateLayout is the date format FRED uses for observations.
const fredDateLayout = "2006-01-02"

// FREDClient fetches economic series from the St. Louis Fed FRED API.
// Every request requires an API key.
type FREDClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// FREDOption customizes a FREDClient.
type FREDOption func(*FREDClient)

// WithFREDBaseURL overrides the endpoint, mainly for tests.
func WithFREDBaseURL(baseURL string) FREDOption {
	return func(c *FREDClient) { c.baseURL = baseURL }
}

// WithFREDHTTPClient overrides the underlying HTTP client.
func WithFREDHTTPClient(client *http.Client) FREDOption {
	return func(c *FREDClient) { c.client = client }
}

// NewFREDClient creates a FRED economic data provider.
func NewFREDClient(apiKey string, opts ...FREDOption) *FREDClient {
	c := &FREDClient{
		baseURL: fredBaseURL,
		apiKey:  apiKey,
		client:  defaultHTTPClient(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// GetSeries implements EconomicProvider. FRED encodes missing
// observations as the literal value "."; those rows are dropped, so the
// returned series is dense but may be shorter than the requested range.
func (c *FREDClient) GetSeries(ctx context.Context, seriesID string, start, end time.Time, frequency string) (*types.EconomicSeries, error) {
	if c.apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingAPIKey, "FRED API key is not set")
	}

	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("api_key", c.apiKey)
	query.Set("file_type", "json")

	if frequency != "" {
		query.Set("frequency", frequency)
	}

	if !start.IsZero() {
		query.Set("observation_start", start.Format(fredDateLayout))
	}

	if !end.IsZero() {
		query.Set("observation_end", end.Format(fredDateLayout))
	}

	endpoint := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())

	body, err := fetch(ctx, c.client, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var parsed fredObservationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse observations for %s", seriesID)
	}

	series := &types.EconomicSeries{
		SeriesID: seriesID,
		Dates:    nil,
		Values:   nil,
	}

	for _, obs := range parsed.Observations {
		if obs.Value == "." {
			continue
		}

		date, err := time.Parse(fredDateLayout, obs.Date)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "bad observation date %q for %s", obs.Date, seriesID)
		}

		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "bad observation value %q for %s", obs.Value, seriesID)
		}

		series.Dates = append(series.Dates, date)
		series.Values = append(series.Values, value)
	}

	return series, nil
}
