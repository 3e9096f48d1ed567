package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BacktestResult aggregates the outcome of one single-asset backtest
// run. It is created once per engine run and never mutated after return.
type BacktestResult struct {
	// Ticker of the instrument the strategy ran on.
	Ticker string `yaml:"ticker"`
	// StrategyName is the display name of the strategy.
	StrategyName string `yaml:"strategy_name"`

	InitialCapital float64 `yaml:"initial_capital"`
	FinalCapital   float64 `yaml:"final_capital"`

	// TotalReturnPct is the total return percentage.
	TotalReturnPct float64 `yaml:"total_return_pct"`
	// WinRate is winning trades / total trades, in [0, 1].
	WinRate float64 `yaml:"win_rate"`
	// MaxDrawdownPct is the maximum drawdown percentage (negative).
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	// SharpeRatio is the annualized Sharpe ratio.
	SharpeRatio float64 `yaml:"sharpe_ratio"`

	// Score is the composite score in [0, 100].
	Score float64 `yaml:"score"`

	// Trades is the ordered trade history.
	Trades []Trade `yaml:"trades"`
}

// WriteResult writes a backtest result to the given path as YAML.
func WriteResult(path string, result *BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
