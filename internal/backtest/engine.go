// Package backtest simulates a single strategy over one instrument's
// historical series and scores the outcome.
package backtest

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

// tradingDaysPerYear annualizes the Sharpe ratio of daily bars.
const tradingDaysPerYear = 252

// ProgressCallback reports simulation progress as (processed, total) bars.
type ProgressCallback func(current, total int)

// Engine runs all-in/all-out position simulations: a BUY while flat
// converts all capital to shares at the bar close, a SELL while holding
// liquidates everything.
type Engine struct {
	initialCapital float64
	log            *logger.Logger
}

// NewEngine creates a backtest engine starting from the given capital.
func NewEngine(initialCapital float64, log *logger.Logger) (*Engine, error) {
	if initialCapital <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must be positive, got %f", initialCapital)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		initialCapital: initialCapital,
		log:            log,
	}, nil
}

// Run simulates the strategy over the series and returns the scored
// result. An empty series yields a degraded result with finalCapital
// equal to initialCapital and zeroed metrics, not an error.
func (e *Engine) Run(strat strategy.Strategy, series *types.PriceSeries, onProgress optional.Option[ProgressCallback]) (*types.BacktestResult, error) {
	if strat == nil {
		return nil, errors.New(errors.ErrCodeNilStrategy, "no strategy provided")
	}

	if series == nil {
		return nil, errors.New(errors.ErrCodeNilSeries, "no price series provided")
	}

	result := &types.BacktestResult{
		Ticker:         series.Ticker,
		StrategyName:   strat.Name(),
		InitialCapital: e.initialCapital,
		FinalCapital:   e.initialCapital,
		TotalReturnPct: 0,
		WinRate:        0,
		MaxDrawdownPct: 0,
		SharpeRatio:    0,
		Score:          0,
		Trades:         nil,
	}

	if series.Len() == 0 {
		e.log.Debug("Empty price series, returning degraded result",
			zap.String("ticker", series.Ticker),
		)

		return result, nil
	}

	if err := strat.Init(series); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyInitFailed, "failed to initialize strategy", err)
	}

	warmup := strat.WarmupPeriod()
	n := series.Len()

	capital := e.initialCapital
	shares := 0.0
	inPosition := false
	buyPrice := 0.0
	buyIdx := 0

	equity := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		price := series.Close[i]

		// Record equity before evaluating the bar's signal.
		if inPosition {
			equity = append(equity, shares*price)
		} else {
			equity = append(equity, capital)
		}

		if onProgress.IsSome() {
			onProgress.Unwrap()(i+1, n)
		}

		if i < warmup {
			continue
		}

		signal := strat.Evaluate(series, i)

		switch {
		case signal == types.SignalBuy && !inPosition:
			shares = capital / price
			buyPrice = price
			buyIdx = i
			inPosition = true
			capital = 0
		case signal == types.SignalSell && inPosition:
			capital = shares * price

			result.Trades = append(result.Trades, types.Trade{
				BuyIndex:  buyIdx,
				SellIndex: i,
				BuyPrice:  buyPrice,
				SellPrice: price,
				ReturnPct: (price - buyPrice) / buyPrice * 100,
			})

			shares = 0
			inPosition = false
		}
	}

	// Still holding at series end: force-close at the last close. This
	// is a boundary policy, not an error.
	if inPosition {
		lastPrice := series.Close[n-1]
		capital = shares * lastPrice

		result.Trades = append(result.Trades, types.Trade{
			BuyIndex:  buyIdx,
			SellIndex: n - 1,
			BuyPrice:  buyPrice,
			SellPrice: lastPrice,
			ReturnPct: (lastPrice - buyPrice) / buyPrice * 100,
		})
	}

	result.FinalCapital = capital

	e.computeMetrics(result, equity)

	e.log.Debug("Backtest run finished",
		zap.String("ticker", series.Ticker),
		zap.String("strategy", strat.Name()),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("score", result.Score),
	)

	return result, nil
}

func (e *Engine) computeMetrics(result *types.BacktestResult, equity []float64) {
	result.TotalReturnPct = (result.FinalCapital - e.initialCapital) / e.initialCapital * 100

	if len(result.Trades) > 0 {
		wins := 0

		for _, trade := range result.Trades {
			if trade.IsWin() {
				wins++
			}
		}

		result.WinRate = float64(wins) / float64(len(result.Trades))
	}

	result.MaxDrawdownPct = maxDrawdown(equity)
	result.SharpeRatio = sharpeRatio(equity)
	result.Score = CompositeScore(result.TotalReturnPct, result.WinRate, result.MaxDrawdownPct, result.SharpeRatio)
}

// maxDrawdown returns the most negative peak-to-trough decline in
// percent observed across the equity curve (0 for a flat curve).
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	maxDD := 0.0

	for _, eq := range equity {
		peak = math.Max(peak, eq)
		dd := (eq - peak) / peak * 100
		maxDD = math.Min(maxDD, dd)
	}

	return maxDD
}

// sharpeRatio annualizes mean/stddev of equity-curve-derived daily
// returns with sqrt(252). Population variance; entries with a
// non-positive previous equity are skipped. Returns 0 when there is not
// enough data or volatility is near zero.
func sharpeRatio(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		if equity[i-1] > 0 {
			returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
		}
	}

	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns))

	stdDev := math.Sqrt(variance)
	if stdDev < 1e-12 {
		return 0
	}

	return (mean / stdDev) * math.Sqrt(tradingDaysPerYear)
}
