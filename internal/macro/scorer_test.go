package macro

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

type ScorerTestSuite struct {
	suite.Suite

	scorer *Scorer
}

func TestScorerSuite(t *testing.T) {
	suite.Run(t, new(ScorerTestSuite))
}

func (suite *ScorerTestSuite) SetupTest() {
	suite.scorer = NewScorer(config.Default(), nil)
}

func noSentiment() optional.Option[types.SentimentSnapshot] {
	return optional.None[types.SentimentSnapshot]()
}

func econSeries(id string, values ...float64) *types.EconomicSeries {
	return &types.EconomicSeries{
		SeriesID: id,
		Values:   values,
	}
}

func (suite *ScorerTestSuite) TestEmptyInputsAreNeutral() {
	scores := suite.scorer.ComputeScores(map[string]*types.EconomicSeries{}, noSentiment())

	suite.Equal(50.0, scores.Growth)
	suite.Equal(50.0, scores.Inflation)
	suite.Equal(50.0, scores.Liquidity)
	suite.Equal(50.0, scores.Sentiment)
	suite.Equal(50.0, scores.Risk)

	suite.InDelta(50.0, suite.scorer.ComputeComposite(scores), 1e-9)
	suite.Equal(types.RegimeSlowdown, suite.scorer.DetectRegime(scores))
}

func (suite *ScorerTestSuite) TestGrowthFromUnemployment() {
	data := map[string]*types.EconomicSeries{
		SeriesUnemployment: econSeries(SeriesUnemployment, 4.0, 3.9),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// Falling rate adds 10, the sub-5% level adds (5-3.9)*5 = 5.5.
	suite.InDelta(65.5, scores.Growth, 1e-9)
}

func (suite *ScorerTestSuite) TestGrowthFromPayrollsAndProduction() {
	data := map[string]*types.EconomicSeries{
		SeriesPayrolls:             econSeries(SeriesPayrolls, 157000, 157400),
		SeriesIndustrialProduction: econSeries(SeriesIndustrialProduction, 102.0, 103.5),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// Payrolls: +400/200*10 = 20. Production: +1.5*5 = 7.5.
	suite.InDelta(77.5, scores.Growth, 1e-9)
}

func (suite *ScorerTestSuite) TestInflationAgainstTarget() {
	data := map[string]*types.EconomicSeries{
		SeriesCPI: econSeries(SeriesCPI, 100.0, 100.25),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// 0.25% monthly annualizes to 3%; (3-2)*10 above the 2% target.
	suite.InDelta(60.0, scores.Inflation, 1e-9)
}

func (suite *ScorerTestSuite) TestInflationSkipsZeroBase() {
	data := map[string]*types.EconomicSeries{
		SeriesCPI: econSeries(SeriesCPI, 0.0, 1.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	suite.Equal(50.0, scores.Inflation)
}

func (suite *ScorerTestSuite) TestLiquidityFromRates() {
	data := map[string]*types.EconomicSeries{
		SeriesFedFunds: econSeries(SeriesFedFunds, 5.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// (3 - 5) * 5 = -10.
	suite.InDelta(40.0, scores.Liquidity, 1e-9)
}

func (suite *ScorerTestSuite) TestLiquidityFromMoneySupply() {
	data := map[string]*types.EconomicSeries{
		SeriesRealM2: econSeries(SeriesRealM2, 1000.0, 1005.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// +0.5% of real M2 * 30 = 15.
	suite.InDelta(65.0, scores.Liquidity, 1e-9)
}

func (suite *ScorerTestSuite) TestSentimentFearGreedOnly() {
	snapshot := types.SentimentSnapshot{Score: 80, Rating: "greed"}

	scores := suite.scorer.ComputeScores(map[string]*types.EconomicSeries{}, optional.Some(snapshot))

	suite.InDelta(80.0, scores.Sentiment, 1e-9)
}

func (suite *ScorerTestSuite) TestSentimentConsumerOnly() {
	data := map[string]*types.EconomicSeries{
		SeriesConsumerSentiment: econSeries(SeriesConsumerSentiment, 80.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// (80 - 50) * 100/60 = 50.
	suite.InDelta(50.0, scores.Sentiment, 1e-9)
}

func (suite *ScorerTestSuite) TestSentimentBlendsBothSources() {
	data := map[string]*types.EconomicSeries{
		SeriesConsumerSentiment: econSeries(SeriesConsumerSentiment, 80.0),
	}
	snapshot := types.SentimentSnapshot{Score: 80}

	scores := suite.scorer.ComputeScores(data, optional.Some(snapshot))

	suite.InDelta(65.0, scores.Sentiment, 1e-9)
}

func (suite *ScorerTestSuite) TestRiskFromSpreads() {
	data := map[string]*types.EconomicSeries{
		SeriesYieldSpread:     econSeries(SeriesYieldSpread, -0.5),
		SeriesHighYieldSpread: econSeries(SeriesHighYieldSpread, 6.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	// Inverted curve: +5. High-yield stress: (6-4)*8 = 16.
	suite.InDelta(71.0, scores.Risk, 1e-9)
}

func (suite *ScorerTestSuite) TestScoresAreClamped() {
	data := map[string]*types.EconomicSeries{
		SeriesUnemployment: econSeries(SeriesUnemployment, 10.0, 3.0),
	}

	scores := suite.scorer.ComputeScores(data, noSentiment())

	suite.Equal(100.0, scores.Growth)
}

func (suite *ScorerTestSuite) TestComputeScoresAtIndex() {
	data := map[string]*types.EconomicSeries{
		SeriesUnemployment: econSeries(SeriesUnemployment, 4.0, 3.9, 6.0, 7.0),
	}

	// Index 1 sees the same pair as the live evaluation of a two-point
	// series.
	scores := suite.scorer.ComputeScoresAt(data, 1)
	suite.InDelta(65.5, scores.Growth, 1e-9)
}

func (suite *ScorerTestSuite) TestComputeScoresAtOutOfRange() {
	data := map[string]*types.EconomicSeries{
		SeriesUnemployment: econSeries(SeriesUnemployment, 4.0, 3.9),
	}

	scores := suite.scorer.ComputeScoresAt(data, 10)
	// Out-of-range reads contribute level 0 and delta 0, so only the
	// level bonus (5-0)*5 remains.
	suite.InDelta(75.0, scores.Growth, 1e-9)
}

func (suite *ScorerTestSuite) TestComputeCompositeInvertsInflationAndRisk() {
	scores := types.MacroScores{Growth: 80, Inflation: 20, Liquidity: 60, Sentiment: 40, Risk: 10}

	// 80*.25 + 80*.20 + 60*.20 + 40*.15 + 90*.20 = 72.
	suite.InDelta(72.0, suite.scorer.ComputeComposite(scores), 1e-9)
}

func (suite *ScorerTestSuite) TestRegimePriority() {
	cases := []struct {
		name   string
		scores types.MacroScores
		want   types.Regime
	}{
		{"overheating", types.MacroScores{Growth: 50, Inflation: 70}, types.RegimeOverheating},
		{"overheating wins over expansion", types.MacroScores{Growth: 70, Inflation: 70}, types.RegimeOverheating},
		{"expansion", types.MacroScores{Growth: 70, Inflation: 50}, types.RegimeExpansion},
		{"recession on weak growth", types.MacroScores{Growth: 10, Inflation: 50}, types.RegimeRecession},
		{"recession on elevated risk", types.MacroScores{Growth: 50, Inflation: 50, Risk: 75}, types.RegimeRecession},
		{"slowdown default", types.MacroScores{Growth: 30, Inflation: 50}, types.RegimeSlowdown},
	}

	for _, c := range cases {
		suite.Equal(c.want, suite.scorer.DetectRegime(c.scores), c.name)
	}
}

func (suite *ScorerTestSuite) TestAllocationFor() {
	alloc := suite.scorer.AllocationFor(types.RegimeRecession)
	suite.Equal(40.0, alloc.Bonds)

	suite.Zero(suite.scorer.AllocationFor(types.Regime("OTHER")).Total())
}

func (suite *ScorerTestSuite) TestClamp() {
	suite.Equal(0.0, Clamp(-5))
	suite.Equal(100.0, Clamp(150))
	suite.Equal(42.0, Clamp(42))
}
