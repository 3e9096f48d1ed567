package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const fearGreedFixture = `{
  "fear_and_greed": {
    "score": 62.5,
    "rating": "greed",
    "previous_close": 60.1,
    "previous_1_week": 55.0,
    "previous_1_month": 48.3,
    "previous_1_year": 70.2
  },
  "fear_and_greed_historical": {
    "data": [
      {"x": 1704067200000, "y": 58.0, "rating": "greed"},
      {"x": 1704153600000, "y": 62.5, "rating": "greed"}
    ]
  }
}`

type FearGreedClientTestSuite struct {
	suite.Suite
}

func TestFearGreedClientSuite(t *testing.T) {
	suite.Run(t, new(FearGreedClientTestSuite))
}

func (suite *FearGreedClientTestSuite) TestGetSnapshot() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The endpoint rejects non-browser user agents.
		suite.Contains(r.Header.Get("User-Agent"), "Mozilla")

		_, _ = w.Write([]byte(fearGreedFixture))
	}))
	defer server.Close()

	client := NewFearGreedClient(WithFearGreedBaseURL(server.URL))

	snapshot, err := client.GetSnapshot(context.Background())
	suite.Require().NoError(err)

	suite.Equal(62.5, snapshot.Score)
	suite.Equal("greed", snapshot.Rating)
	suite.Equal(60.1, snapshot.PreviousClose)
	suite.Equal(48.3, snapshot.PreviousMonth)

	// History timestamps arrive as epoch milliseconds.
	suite.Require().Len(snapshot.Timestamps, 2)
	suite.Equal(time.UnixMilli(1704067200000).UTC(), snapshot.Timestamps[0])
	suite.Equal([]float64{58.0, 62.5}, snapshot.Scores)
	suite.Equal([]string{"greed", "greed"}, snapshot.Ratings)
}

func (suite *FearGreedClientTestSuite) TestServerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewFearGreedClient(WithFearGreedBaseURL(server.URL))

	_, err := client.GetSnapshot(context.Background())
	suite.Error(err)
}
