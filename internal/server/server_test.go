package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/rxtech-lab/argo-quant/internal/macro"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type stubEconomicProvider struct {
	series map[string]*types.EconomicSeries
}

func (s *stubEconomicProvider) GetSeries(_ context.Context, seriesID string, _, _ time.Time, _ string) (*types.EconomicSeries, error) {
	series, ok := s.series[seriesID]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data for %s", seriesID)
	}

	return series, nil
}

type ServerTestSuite struct {
	suite.Suite

	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	economic := &stubEconomicProvider{series: map[string]*types.EconomicSeries{
		macro.SeriesUnemployment: {
			SeriesID: macro.SeriesUnemployment,
			Values:   []float64{4.0, 3.9},
		},
	}}

	scorer := macro.NewScorer(config.Default(), nil)
	analyzer := macro.NewAnalyzer(scorer, economic, nil, nil)

	suite.server = NewServer(analyzer, nil)
}

func (suite *ServerTestSuite) TestAnalysisEndpoint() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/macro/analysis", nil)
	rec := httptest.NewRecorder()

	suite.server.Handler().ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("application/json", rec.Header().Get("Content-Type"))

	var analysis macro.Analysis
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &analysis))

	suite.NotEmpty(analysis.ID)
	suite.NotEmpty(analysis.Regime)
	suite.InDelta(65.5, analysis.Scores.Growth, 1e-9)
}

func (suite *ServerTestSuite) TestAnalysisEndpointRejectsPost() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/macro/analysis", nil)
	rec := httptest.NewRecorder()

	suite.server.Handler().ServeHTTP(rec, req)

	suite.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (suite *ServerTestSuite) TestAnalysisFailureReturnsError() {
	scorer := macro.NewScorer(config.Default(), nil)
	analyzer := macro.NewAnalyzer(scorer, &stubEconomicProvider{}, nil, nil)
	server := NewServer(analyzer, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/macro/analysis", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	suite.Equal(http.StatusBadGateway, rec.Code)

	var payload map[string]string
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	suite.Contains(payload, "error")
}

func (suite *ServerTestSuite) TestHealthEndpoint() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	suite.server.Handler().ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
}
