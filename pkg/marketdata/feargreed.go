package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// fearGreedURL is CNN's fear and greed index endpoint.
const fearGreedURL = "https://production.dataviz.cnn.io/index/fearandgreed/graphdata"

// browserUserAgent is required by the CNN endpoint, which rejects
// requests carrying a default library user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// FearGreedClient fetches the CNN fear and greed index.
type FearGreedClient struct {
	baseURL string
	client  *http.Client
}

// FearGreedOption customizes a FearGreedClient.
type FearGreedOption func(*FearGreedClient)

// WithFearGreedBaseURL overrides the endpoint, mainly for tests.
func WithFearGreedBaseURL(baseURL string) FearGreedOption {
	return func(c *FearGreedClient) { c.baseURL = baseURL }
}

// WithFearGreedHTTPClient overrides the underlying HTTP client.
func WithFearGreedHTTPClient(client *http.Client) FearGreedOption {
	return func(c *FearGreedClient) { c.client = client }
}

// NewFearGreedClient creates a fear and greed sentiment provider.
func NewFearGreedClient(opts ...FearGreedOption) *FearGreedClient {
	c := &FearGreedClient{
		baseURL: fearGreedURL,
		client:  defaultHTTPClient(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type fearGreedResponse struct {
	FearAndGreed struct {
		Score           float64 `json:"score"`
		Rating          string  `json:"rating"`
		PreviousClose   float64 `json:"previous_close"`
		Previous1Week   float64 `json:"previous_1_week"`
		Previous1Month  float64 `json:"previous_1_month"`
		Previous1Year   float64 `json:"previous_1_year"`
	} `json:"fear_and_greed"`
	FearAndGreedHistorical struct {
		Data []struct {
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			Rating string  `json:"rating"`
		} `json:"data"`
	} `json:"fear_and_greed_historical"`
}

// GetSnapshot implements SentimentProvider. History timestamps arrive
// as epoch milliseconds.
func (c *FearGreedClient) GetSnapshot(ctx context.Context) (*types.SentimentSnapshot, error) {
	headers := map[string]string{
		"User-Agent": browserUserAgent,
	}

	body, err := fetch(ctx, c.client, c.baseURL, headers)
	if err != nil {
		return nil, err
	}

	var parsed fearGreedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse fear and greed response", err)
	}

	snapshot := &types.SentimentSnapshot{
		Score:         parsed.FearAndGreed.Score,
		Rating:        parsed.FearAndGreed.Rating,
		PreviousClose: parsed.FearAndGreed.PreviousClose,
		PreviousWeek:  parsed.FearAndGreed.Previous1Week,
		PreviousMonth: parsed.FearAndGreed.Previous1Month,
		PreviousYear:  parsed.FearAndGreed.Previous1Year,
		Timestamps:    nil,
		Scores:        nil,
		Ratings:       nil,
	}

	for _, point := range parsed.FearAndGreedHistorical.Data {
		snapshot.Timestamps = append(snapshot.Timestamps, time.UnixMilli(int64(point.X)).UTC())
		snapshot.Scores = append(snapshot.Scores, point.Y)
		snapshot.Ratings = append(snapshot.Ratings, point.Rating)
	}

	return snapshot, nil
}
