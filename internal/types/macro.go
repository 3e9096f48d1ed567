package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MacroScores holds the five macro category scores plus the weighted
// composite. Every field is in [0, 100]. Scores are recomputed from
// inputs on every evaluation; no state is carried between calls.
type MacroScores struct {
	// Growth: high = strong economy.
	Growth float64 `yaml:"growth" json:"growth"`
	// Inflation: high = high inflation pressure.
	Inflation float64 `yaml:"inflation" json:"inflation"`
	// Liquidity: high = loose monetary policy.
	Liquidity float64 `yaml:"liquidity" json:"liquidity"`
	// Sentiment: high = bullish.
	Sentiment float64 `yaml:"sentiment" json:"sentiment"`
	// Risk: high = risky environment.
	Risk float64 `yaml:"risk" json:"risk"`
	// Composite is the weighted total.
	Composite float64 `yaml:"composite" json:"composite"`
}

// Regime is a discrete macroeconomic state driving target allocation.
type Regime string

const (
	// RegimeExpansion: strong growth, moderate inflation.
	RegimeExpansion Regime = "EXPANSION"
	// RegimeOverheating: strong growth, high inflation.
	RegimeOverheating Regime = "OVERHEATING"
	// RegimeSlowdown: weakening growth, elevated inflation. Default state.
	RegimeSlowdown Regime = "SLOWDOWN"
	// RegimeRecession: weak growth, elevated risk.
	RegimeRecession Regime = "RECESSION"
)

// Allocation holds target portfolio weights per asset class, expressed
// in percent. Weights are looked up from configuration per regime and
// sum to at most 100; the sum is not enforced to be exactly 100.
type Allocation struct {
	Stocks float64 `yaml:"stocks" json:"stocks"`
	Gold   float64 `yaml:"gold" json:"gold"`
	Metals float64 `yaml:"metals" json:"metals"`
	Bonds  float64 `yaml:"bonds" json:"bonds"`
	Cash   float64 `yaml:"cash" json:"cash"`
}

// Total returns the sum of all weights. Decimal addition avoids float
// accumulation noise when checking the <= 100 budget.
func (a Allocation) Total() float64 {
	total := decimal.NewFromFloat(a.Stocks).
		Add(decimal.NewFromFloat(a.Gold)).
		Add(decimal.NewFromFloat(a.Metals)).
		Add(decimal.NewFromFloat(a.Bonds)).
		Add(decimal.NewFromFloat(a.Cash))

	result, _ := total.Float64()

	return result
}

// Weights returns the allocation as an asset-key -> weight map, keyed
// the same way as the configuration's asset ticker table.
func (a Allocation) Weights() map[string]float64 {
	return map[string]float64{
		"stocks": a.Stocks,
		"gold":   a.Gold,
		"metals": a.Metals,
		"bonds":  a.Bonds,
		"cash":   a.Cash,
	}
}

// RebalanceFrequency selects how often the macro backtester re-evaluates
// the regime and applies a new allocation.
type RebalanceFrequency string

const (
	RebalanceMonthly   RebalanceFrequency = "m"
	RebalanceQuarterly RebalanceFrequency = "q"
	RebalanceAnnually  RebalanceFrequency = "a"
	// RebalanceBuyAndHold labels benchmark results; it is never a
	// rebalance cadence.
	RebalanceBuyAndHold RebalanceFrequency = "b&h"
)

// MacroBacktestPeriod is the snapshot taken at one rebalance point.
// Periods are appended chronologically and never edited afterwards,
// except MonthReturn which is filled in immediately after the month's
// portfolio return is known.
type MacroBacktestPeriod struct {
	Date   time.Time   `yaml:"date" json:"date"`
	Scores MacroScores `yaml:"scores" json:"scores"`
	// Regime in effect after this rebalance.
	Regime Regime `yaml:"regime" json:"regime"`
	// PrevRegime is the regime before this rebalance.
	PrevRegime Regime `yaml:"prev_regime" json:"prev_regime"`
	// Alloc is the allocation applied at this point.
	Alloc Allocation `yaml:"allocation" json:"allocation"`
	// AllocChanged reports whether the regime changed since the previous
	// rebalance (always true for the first one).
	AllocChanged bool `yaml:"alloc_changed" json:"alloc_changed"`
	// Equity is the portfolio value entering this month.
	Equity float64 `yaml:"equity" json:"equity"`
	// MonthReturn is this month's portfolio return in percent.
	MonthReturn float64 `yaml:"month_return" json:"month_return"`
}

// MacroBacktestResult summarizes a multi-asset macro allocation backtest.
type MacroBacktestResult struct {
	Frequency      RebalanceFrequency `yaml:"frequency" json:"frequency"`
	InitialCapital float64            `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital   float64            `yaml:"final_capital" json:"final_capital"`
	TotalReturnPct float64            `yaml:"total_return_pct" json:"total_return_pct"`
	// CAGR is the compound annual growth rate in percent.
	CAGR           float64 `yaml:"cagr" json:"cagr"`
	SharpeRatio    float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct" json:"max_drawdown_pct"`
	RebalanceCount int     `yaml:"rebalance_count" json:"rebalance_count"`

	Periods []MacroBacktestPeriod `yaml:"periods" json:"periods"`
}
