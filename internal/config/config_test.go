package config

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg := Default()

	suite.Equal("1.0.0", cfg.Version)
	suite.InDelta(0.25, cfg.ScoringWeights.GrowthWeight(), 1e-9)
	suite.InDelta(0.20, cfg.ScoringWeights.InflationWeight(), 1e-9)
	suite.InDelta(0.20, cfg.ScoringWeights.LiquidityWeight(), 1e-9)
	suite.InDelta(0.15, cfg.ScoringWeights.SentimentWeight(), 1e-9)
	suite.InDelta(0.20, cfg.ScoringWeights.RiskWeight(), 1e-9)

	suite.InDelta(45.0, cfg.RegimeThresholds.Overheating.GrowthMin(), 1e-9)
	suite.InDelta(65.0, cfg.RegimeThresholds.Overheating.InflationFloor(), 1e-9)
	suite.InDelta(60.0, cfg.RegimeThresholds.Expansion.GrowthMin(), 1e-9)
	suite.InDelta(65.0, cfg.RegimeThresholds.Expansion.InflationCeiling(), 1e-9)
	suite.InDelta(25.0, cfg.RegimeThresholds.Slowdown.GrowthFloor(), 1e-9)

	suite.Equal(10000.0, cfg.Backtest.Capital())
	suite.Equal("SPY", cfg.Backtest.BenchmarkTicker())
	suite.Len(cfg.Backtest.Frequencies(), 3)

	suite.Equal("SPY", cfg.AssetTickers["stocks"])
	suite.Equal("GLD", cfg.AssetTickers["gold"])

	suite.NoError(cfg.Validate())
}

func (suite *ConfigTestSuite) TestDefaultAllocationsWithinBudget() {
	cfg := Default()

	for regime, alloc := range cfg.Allocations {
		suite.LessOrEqual(alloc.Total(), 100.0, "allocation for %s", regime)
	}
}

func (suite *ConfigTestSuite) TestLoadMergesOverDefaults() {
	yamlDoc := `
version: "1.0.0"
scoring_weights:
  growth: 0.4
backtest:
  initial_capital: 50000
  benchmark: QQQ
  rebalance_frequencies: [q]
`

	cfg, err := Load([]byte(yamlDoc))
	suite.Require().NoError(err)

	suite.InDelta(0.4, cfg.ScoringWeights.GrowthWeight(), 1e-9)
	// Untouched weights keep their defaults.
	suite.InDelta(0.20, cfg.ScoringWeights.InflationWeight(), 1e-9)

	suite.Equal(50000.0, cfg.Backtest.Capital())
	suite.Equal("QQQ", cfg.Backtest.BenchmarkTicker())
	suite.Equal([]types.RebalanceFrequency{types.RebalanceQuarterly}, cfg.Backtest.Frequencies())
}

func (suite *ConfigTestSuite) TestLoadParsesDates() {
	yamlDoc := `
version: "1.0.0"
backtest:
  start_date: "2015-01-01"
  end_date: "2024-12-31"
`

	cfg, err := Load([]byte(yamlDoc))
	suite.Require().NoError(err)

	suite.Require().True(cfg.Backtest.StartDate.IsSome())
	suite.Equal(2015, cfg.Backtest.StartDate.Unwrap().Year())
	suite.Require().True(cfg.Backtest.EndDate.IsSome())
	suite.Equal(time.December, cfg.Backtest.EndDate.Unwrap().Month())
}

func (suite *ConfigTestSuite) TestLoadRejectsBadDate() {
	yamlDoc := `
version: "1.0.0"
backtest:
  start_date: "01/02/2015"
`

	_, err := Load([]byte(yamlDoc))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestUnsupportedVersion() {
	yamlDoc := `
version: "2.0.0"
`

	_, err := Load([]byte(yamlDoc))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedVersion))
}

func (suite *ConfigTestSuite) TestMalformedVersion() {
	yamlDoc := `
version: "not-a-version"
`

	_, err := Load([]byte(yamlDoc))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestAllocationOverBudget() {
	yamlDoc := `
version: "1.0.0"
allocation:
  expansion:
    stocks: 80
    gold: 30
`

	_, err := Load([]byte(yamlDoc))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestWeightOutOfRange() {
	yamlDoc := `
version: "1.0.0"
scoring_weights:
  growth: 1.5
`

	_, err := Load([]byte(yamlDoc))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestAllocationForUnknownRegime() {
	cfg := Default()

	alloc := cfg.AllocationFor(types.Regime("UNCHARTED"))
	suite.Zero(alloc.Total())
}

func (suite *ConfigTestSuite) TestAllocationForIsCaseInsensitive() {
	cfg := Default()

	alloc := cfg.AllocationFor(types.RegimeExpansion)
	suite.Equal(70.0, alloc.Stocks)
}
