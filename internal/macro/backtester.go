package macro

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"go.uber.org/zap"
)

// monthsPerYear annualizes monthly metrics.
const monthsPerYear = 12

// Backtester simulates a regime-driven allocation portfolio over
// monthly data. Weights are held fixed between rebalance points;
// allocation drift within a month is not modeled.
type Backtester struct {
	scorer *Scorer
	log    *logger.Logger
}

// NewBacktester creates a macro backtester on top of the given scorer.
func NewBacktester(scorer *Scorer, log *logger.Logger) *Backtester {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Backtester{
		scorer: scorer,
		log:    log,
	}
}

// isRebalancePoint reports whether the month index re-evaluates the
// regime for the given cadence. Unknown cadences rebalance monthly.
func isRebalancePoint(monthIndex int, frequency types.RebalanceFrequency) bool {
	switch frequency {
	case types.RebalanceQuarterly:
		return monthIndex%3 == 0
	case types.RebalanceAnnually:
		return monthIndex%12 == 0
	default:
		return true
	}
}

// Run simulates the portfolio over len(dates) months. The macro series
// are index-aligned so their tail matches the simulation window: series
// observation offset+i corresponds to dates[i], where offset is the
// excess warm-up length. A month whose macro index falls out of range
// performs no rebalance and keeps the current allocation (initially
// all-zero).
func (b *Backtester) Run(fredData map[string]*types.EconomicSeries, assetReturns map[string][]float64, dates []time.Time, frequency types.RebalanceFrequency, initialCapital float64) *types.MacroBacktestResult {
	result := &types.MacroBacktestResult{
		Frequency:      frequency,
		InitialCapital: initialCapital,
		FinalCapital:   initialCapital,
		TotalReturnPct: 0,
		CAGR:           0,
		SharpeRatio:    0,
		MaxDrawdownPct: 0,
		RebalanceCount: 0,
		Periods:        nil,
	}

	if len(dates) == 0 {
		return result
	}

	months := len(dates)
	equity := initialCapital

	// All-zero until the first successful rebalance.
	currentAlloc := types.Allocation{Stocks: 0, Gold: 0, Metals: 0, Bonds: 0, Cash: 0}

	// The shortest present series bounds every index lookup.
	fredMinLen := 0
	first := true

	for _, series := range fredData {
		if series == nil {
			continue
		}

		if first || series.Len() < fredMinLen {
			fredMinLen = series.Len()
			first = false
		}
	}

	// The tail of the (longer) macro history aligns to the simulation
	// window.
	fredOffset := 0
	if fredMinLen > months {
		fredOffset = fredMinLen - months
	}

	equityCurve := make([]float64, 0, months)

	prevRegime := types.RegimeSlowdown
	hadFirstRebalance := false

	for i := 0; i < months; i++ {
		if isRebalancePoint(i, frequency) {
			fredIdx := fredOffset + i
			if fredIdx > 0 && fredIdx < fredMinLen {
				scores := b.scorer.ComputeScoresAt(fredData, fredIdx)
				scores.Composite = b.scorer.ComputeComposite(scores)
				regime := b.scorer.DetectRegime(scores)
				newAlloc := b.scorer.AllocationFor(regime)

				changed := !hadFirstRebalance || regime != prevRegime

				result.Periods = append(result.Periods, types.MacroBacktestPeriod{
					Date:         dates[i],
					Scores:       scores,
					Regime:       regime,
					PrevRegime:   prevRegime,
					Alloc:        newAlloc,
					AllocChanged: changed,
					Equity:       equity,
					MonthReturn:  0,
				})

				currentAlloc = newAlloc
				prevRegime = regime
				hadFirstRebalance = true
				result.RebalanceCount++
			}
		}

		// Compound this month's portfolio return under the allocation
		// currently in effect, whether or not a rebalance happened.
		portfolioReturn := 0.0

		for key, weight := range currentAlloc.Weights() {
			if weight <= 0 {
				continue
			}

			returns, ok := assetReturns[key]
			if !ok || i >= len(returns) {
				continue
			}

			portfolioReturn += weight / 100 * returns[i]
		}

		equity *= 1 + portfolioReturn
		equityCurve = append(equityCurve, equity)

		// Backfill the just-recorded period's month return.
		if len(result.Periods) > 0 && result.Periods[len(result.Periods)-1].Date.Equal(dates[i]) {
			result.Periods[len(result.Periods)-1].MonthReturn = portfolioReturn * 100
		}
	}

	result.FinalCapital = equity
	result.TotalReturnPct = (equity - initialCapital) / initialCapital * 100
	result.CAGR = cagr(initialCapital, equity, months)
	result.MaxDrawdownPct = monthlyMaxDrawdown(equityCurve)

	// The first month carries a zero return since it has no prior
	// equity point.
	monthlyReturns := make([]float64, 0, months)
	monthlyReturns = append(monthlyReturns, 0)

	for i := 1; i < len(equityCurve); i++ {
		if equityCurve[i-1] > 0 {
			monthlyReturns = append(monthlyReturns, (equityCurve[i]-equityCurve[i-1])/equityCurve[i-1])
		}
	}

	result.SharpeRatio = monthlySharpe(monthlyReturns)

	b.log.Debug("Macro backtest finished",
		zap.String("frequency", string(frequency)),
		zap.Int("months", months),
		zap.Int("rebalances", result.RebalanceCount),
		zap.Float64("final_capital", result.FinalCapital),
	)

	return result
}

// ComputeBenchmark compounds a single asset's monthly returns with no
// regime logic, producing the buy-and-hold comparison row.
func (b *Backtester) ComputeBenchmark(monthlyReturns []float64, initialCapital float64) *types.MacroBacktestResult {
	result := &types.MacroBacktestResult{
		Frequency:      types.RebalanceBuyAndHold,
		InitialCapital: initialCapital,
		FinalCapital:   initialCapital,
		TotalReturnPct: 0,
		CAGR:           0,
		SharpeRatio:    0,
		MaxDrawdownPct: 0,
		RebalanceCount: 0,
		Periods:        nil,
	}

	equity := initialCapital
	equityCurve := make([]float64, 0, len(monthlyReturns))

	for _, r := range monthlyReturns {
		equity *= 1 + r
		equityCurve = append(equityCurve, equity)
	}

	result.FinalCapital = equity
	result.TotalReturnPct = (equity - initialCapital) / initialCapital * 100
	result.CAGR = cagr(initialCapital, equity, len(monthlyReturns))
	result.MaxDrawdownPct = monthlyMaxDrawdown(equityCurve)
	result.SharpeRatio = monthlySharpe(monthlyReturns)

	return result
}

// AlignReturns fits an asset's monthly returns to the benchmark month
// count: longer series are truncated from the front, shorter ones are
// zero-padded at the front. This is a policy choice for mismatched
// series lengths, not a correctness rule.
func AlignReturns(returns []float64, months int) []float64 {
	if len(returns) > months {
		return returns[len(returns)-months:]
	}

	if len(returns) < months {
		padded := make([]float64, months-len(returns), months)
		return append(padded, returns...)
	}

	return returns
}

func cagr(initial, final float64, months int) float64 {
	years := float64(months) / monthsPerYear
	if years <= 0 || final <= 0 {
		return 0
	}

	return (math.Pow(final/initial, 1/years) - 1) * 100
}

func monthlyMaxDrawdown(equityCurve []float64) float64 {
	if len(equityCurve) == 0 {
		return 0
	}

	peak := equityCurve[0]
	maxDD := 0.0

	for _, eq := range equityCurve {
		peak = math.Max(peak, eq)
		dd := (eq - peak) / peak * 100
		maxDD = math.Min(maxDD, dd)
	}

	return maxDD
}

func monthlySharpe(monthlyReturns []float64) float64 {
	if len(monthlyReturns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range monthlyReturns {
		mean += r
	}

	mean /= float64(len(monthlyReturns))

	variance := 0.0
	for _, r := range monthlyReturns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(monthlyReturns))

	stdDev := math.Sqrt(variance)
	if stdDev < 1e-12 {
		return 0
	}

	return (mean / stdDev) * math.Sqrt(monthsPerYear)
}
