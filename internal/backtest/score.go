package backtest

// Composite score weights. Return and Sharpe dominate; drawdown is the
// smallest component.
const (
	scoreWeightReturn   = 0.30
	scoreWeightWinRate  = 0.25
	scoreWeightDrawdown = 0.20
	scoreWeightSharpe   = 0.25
)

// CompositeScore blends the four metrics into a single 0-100 figure.
// Each component is normalized to [0, 1] before weighting:
//   - total return mapped from [-50, 100]%
//   - win rate used directly
//   - max drawdown mapped from [-50, 0]% (0% drawdown scores 1.0)
//   - Sharpe ratio mapped from [-1, 3]
func CompositeScore(totalReturnPct, winRate, maxDrawdownPct, sharpeRatio float64) float64 {
	retNorm := clamp01((totalReturnPct + 50) / 150)
	wrNorm := clamp01(winRate)
	mddNorm := clamp01(1 + maxDrawdownPct/50)
	sharpeNorm := clamp01((sharpeRatio + 1) / 4)

	weighted := retNorm*scoreWeightReturn +
		wrNorm*scoreWeightWinRate +
		mddNorm*scoreWeightDrawdown +
		sharpeNorm*scoreWeightSharpe

	return clamp(weighted*100, 0, 100)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
