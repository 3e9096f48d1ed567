package backtest

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// scriptedStrategy replays a fixed signal per bar index.
type scriptedStrategy struct {
	signals map[int]types.Signal
	warmup  int
}

func (s *scriptedStrategy) Name() string                    { return "scripted" }
func (s *scriptedStrategy) Init(_ *types.PriceSeries) error { return nil }
func (s *scriptedStrategy) WarmupPeriod() int               { return s.warmup }
func (s *scriptedStrategy) Evaluate(_ *types.PriceSeries, i int) types.Signal {
	if signal, ok := s.signals[i]; ok {
		return signal
	}

	return types.SignalHold
}

type EngineTestSuite struct {
	suite.Suite

	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	engine, err := NewEngine(10000, nil)
	suite.Require().NoError(err)

	suite.engine = engine
}

func seriesFromCloses(closes []float64) *types.PriceSeries {
	return &types.PriceSeries{
		Ticker: "TEST",
		Close:  closes,
	}
}

func noProgress() optional.Option[ProgressCallback] {
	return optional.None[ProgressCallback]()
}

func (suite *EngineTestSuite) TestNewEngineValidation() {
	_, err := NewEngine(0, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCapital))

	_, err = NewEngine(-100, nil)
	suite.Error(err)
}

func (suite *EngineTestSuite) TestNilStrategy() {
	_, err := suite.engine.Run(nil, seriesFromCloses([]float64{1, 2}), noProgress())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNilStrategy))
}

func (suite *EngineTestSuite) TestNilSeries() {
	_, err := suite.engine.Run(&scriptedStrategy{}, nil, noProgress())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNilSeries))
}

func (suite *EngineTestSuite) TestEmptySeriesDegradedResult() {
	result, err := suite.engine.Run(&scriptedStrategy{}, seriesFromCloses(nil), noProgress())
	suite.Require().NoError(err)

	suite.Equal(10000.0, result.InitialCapital)
	suite.Equal(10000.0, result.FinalCapital)
	suite.Zero(result.TotalReturnPct)
	suite.Zero(result.Score)
	suite.Empty(result.Trades)
}

func (suite *EngineTestSuite) TestHoldOnlyIsNeutral() {
	result, err := suite.engine.Run(&scriptedStrategy{}, seriesFromCloses([]float64{10, 11, 12, 11, 10}), noProgress())
	suite.Require().NoError(err)

	suite.Equal(10000.0, result.FinalCapital)
	suite.Zero(result.TotalReturnPct)
	suite.Zero(result.WinRate)
	suite.Zero(result.MaxDrawdownPct)
	suite.Zero(result.SharpeRatio)
	suite.Empty(result.Trades)

	// Neutral inputs still land mid-range on the composite scale.
	suite.InDelta(36.25, result.Score, 1e-9)
}

func (suite *EngineTestSuite) TestBuySellRoundTrip() {
	strat := &scriptedStrategy{signals: map[int]types.Signal{
		1: types.SignalBuy,
		3: types.SignalSell,
	}}

	result, err := suite.engine.Run(strat, seriesFromCloses([]float64{10, 10, 15, 20, 20}), noProgress())
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 1)

	trade := result.Trades[0]
	suite.Equal(1, trade.BuyIndex)
	suite.Equal(3, trade.SellIndex)
	suite.Equal(10.0, trade.BuyPrice)
	suite.Equal(20.0, trade.SellPrice)
	suite.InDelta(100.0, trade.ReturnPct, 1e-9)

	suite.InDelta(20000.0, result.FinalCapital, 1e-9)
	suite.InDelta(100.0, result.TotalReturnPct, 1e-9)
	suite.Equal(1.0, result.WinRate)
}

func (suite *EngineTestSuite) TestRedundantSignalsIgnored() {
	// A second BUY while holding and a SELL while flat must not trade.
	strat := &scriptedStrategy{signals: map[int]types.Signal{
		0: types.SignalSell,
		1: types.SignalBuy,
		2: types.SignalBuy,
		3: types.SignalSell,
		4: types.SignalSell,
	}}

	result, err := suite.engine.Run(strat, seriesFromCloses([]float64{10, 10, 12, 20, 20}), noProgress())
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 1)
	suite.Equal(1, result.Trades[0].BuyIndex)
	suite.Equal(3, result.Trades[0].SellIndex)
}

func (suite *EngineTestSuite) TestForceCloseAtSeriesEnd() {
	strat := &scriptedStrategy{signals: map[int]types.Signal{
		1: types.SignalBuy,
	}}

	result, err := suite.engine.Run(strat, seriesFromCloses([]float64{10, 10, 12, 14, 16}), noProgress())
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 1)
	suite.Equal(4, result.Trades[0].SellIndex)
	suite.Equal(16.0, result.Trades[0].SellPrice)
	suite.InDelta(16000.0, result.FinalCapital, 1e-9)
}

func (suite *EngineTestSuite) TestWarmupBarsSkipped() {
	strat := &scriptedStrategy{
		signals: map[int]types.Signal{1: types.SignalBuy},
		warmup:  3,
	}

	result, err := suite.engine.Run(strat, seriesFromCloses([]float64{10, 10, 12, 14, 16}), noProgress())
	suite.Require().NoError(err)

	// The BUY at index 1 falls inside the warmup window and is ignored.
	suite.Empty(result.Trades)
	suite.Equal(10000.0, result.FinalCapital)
}

func (suite *EngineTestSuite) TestProgressCallback() {
	calls := 0
	lastCurrent := 0
	total := 0

	onProgress := optional.Some[ProgressCallback](func(current, n int) {
		calls++
		lastCurrent = current
		total = n
	})

	_, err := suite.engine.Run(&scriptedStrategy{}, seriesFromCloses([]float64{10, 11, 12}), onProgress)
	suite.Require().NoError(err)

	suite.Equal(3, calls)
	suite.Equal(3, lastCurrent)
	suite.Equal(3, total)
}

func (suite *EngineTestSuite) TestRunIsDeterministic() {
	closes := []float64{10, 9, 8, 7, 6, 10, 14, 18, 22, 20, 19, 23, 25, 24, 26}

	run := func() *types.BacktestResult {
		strat, err := strategy.NewSMACrossover(2, 3)
		suite.Require().NoError(err)

		result, err := suite.engine.Run(strat, seriesFromCloses(closes), noProgress())
		suite.Require().NoError(err)

		return result
	}

	first := run()
	second := run()

	suite.Equal(first, second)
}

func (suite *EngineTestSuite) TestRSIRecoveryIsProfitable() {
	// A V-shaped series: the RSI pins low during the decline, triggering
	// a BUY near the bottom, and the recovery carries the position to a
	// profit whether it exits on overbought or at the final bar.
	closes := make([]float64, 0, 40)

	for i := 0; i < 16; i++ {
		closes = append(closes, 100-float64(i))
	}

	for i := 1; i <= 24; i++ {
		closes = append(closes, 85+2*float64(i))
	}

	strat, err := strategy.NewRSIThreshold(14, 30, 70)
	suite.Require().NoError(err)

	result, err := suite.engine.Run(strat, seriesFromCloses(closes), noProgress())
	suite.Require().NoError(err)

	suite.NotEmpty(result.Trades)
	suite.Greater(result.FinalCapital, result.InitialCapital)
	suite.Greater(result.Score, 0.0)
}
