// Package report renders analysis and backtest results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-quant/internal/macro"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(18)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	regimeStyles = map[types.Regime]lipgloss.Style{
		types.RegimeExpansion:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		types.RegimeOverheating: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		types.RegimeSlowdown:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		types.RegimeRecession:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func signed(value float64, suffix string) string {
	text := fmt.Sprintf("%.2f%s", value, suffix)
	if value >= 0 {
		return positiveStyle.Render(text)
	}

	return negativeStyle.Render(text)
}

func regimeLabel(regime types.Regime) string {
	style, ok := regimeStyles[regime]
	if !ok {
		return string(regime)
	}

	return style.Render(string(regime))
}

// WriteBacktestSummary renders a single-asset backtest result.
func WriteBacktestSummary(w io.Writer, result *types.BacktestResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Backtest: %s / %s", result.Ticker, result.StrategyName)))

	rows := []struct {
		label string
		value string
	}{
		{"Initial capital", fmt.Sprintf("$%.2f", result.InitialCapital)},
		{"Final capital", fmt.Sprintf("$%.2f", result.FinalCapital)},
		{"Total return", signed(result.TotalReturnPct, "%")},
		{"Win rate", fmt.Sprintf("%.1f%%", result.WinRate*100)},
		{"Max drawdown", signed(result.MaxDrawdownPct, "%")},
		{"Sharpe ratio", signed(result.SharpeRatio, "")},
		{"Score", fmt.Sprintf("%.1f / 100", result.Score)},
		{"Trades", fmt.Sprintf("%d", len(result.Trades))},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(row.label), row.value)
	}
}

// WriteTrades renders the closed trades of a backtest, one row each.
func WriteTrades(w io.Writer, trades []types.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No trades executed.")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-4s %-10s %-10s %-12s %-12s %s", "#", "Buy bar", "Sell bar", "Buy price", "Sell price", "Return")))

	for i, trade := range trades {
		fmt.Fprintf(w, "%-4d %-10d %-10d %-12.2f %-12.2f %s\n",
			i+1, trade.BuyIndex, trade.SellIndex, trade.BuyPrice, trade.SellPrice, signed(trade.ReturnPct, "%"))
	}
}

// WriteAnalysis renders a live macro analysis: scores, regime and the
// target allocation.
func WriteAnalysis(w io.Writer, analysis *macro.Analysis) {
	fmt.Fprintln(w, titleStyle.Render("Macro Analysis"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Report ID"), analysis.ID)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Generated"), analysis.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintln(w)

	scores := analysis.Scores
	fmt.Fprintf(w, "%s %.1f\n", labelStyle.Render("Growth"), scores.Growth)
	fmt.Fprintf(w, "%s %.1f\n", labelStyle.Render("Inflation"), scores.Inflation)
	fmt.Fprintf(w, "%s %.1f\n", labelStyle.Render("Liquidity"), scores.Liquidity)
	fmt.Fprintf(w, "%s %.1f\n", labelStyle.Render("Sentiment"), scores.Sentiment)
	fmt.Fprintf(w, "%s %.1f\n", labelStyle.Render("Risk"), scores.Risk)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Composite"), headerStyle.Render(fmt.Sprintf("%.1f", scores.Composite)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Regime"), regimeLabel(analysis.Regime))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Allocation"), formatAllocation(analysis.Alloc))

	if !analysis.SentimentIncluded {
		fmt.Fprintln(w, "Note: fear/greed unavailable, sentiment uses consumer sentiment only.")
	}
}

// WriteMacroComparison renders one row per backtest run plus the
// benchmark, side by side.
func WriteMacroComparison(w io.Writer, runs []*types.MacroBacktestResult, benchmark *types.MacroBacktestResult, benchmarkTicker string) {
	fmt.Fprintln(w, titleStyle.Render("Macro Allocation Backtest"))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-14s %-14s %-12s %-10s %-10s %-10s %s",
		"Strategy", "Final", "Return", "CAGR", "Sharpe", "Max DD", "Rebalances")))

	for _, run := range runs {
		fmt.Fprintf(w, "%-14s %-14s %-12s %-10s %-10s %-10s %d\n",
			frequencyLabel(run.Frequency),
			fmt.Sprintf("$%.2f", run.FinalCapital),
			signed(run.TotalReturnPct, "%"),
			fmt.Sprintf("%.2f%%", run.CAGR),
			fmt.Sprintf("%.2f", run.SharpeRatio),
			fmt.Sprintf("%.2f%%", run.MaxDrawdownPct),
			run.RebalanceCount)
	}

	if benchmark != nil {
		fmt.Fprintf(w, "%-14s %-14s %-12s %-10s %-10s %-10s %s\n",
			fmt.Sprintf("%s b&h", benchmarkTicker),
			fmt.Sprintf("$%.2f", benchmark.FinalCapital),
			signed(benchmark.TotalReturnPct, "%"),
			fmt.Sprintf("%.2f%%", benchmark.CAGR),
			fmt.Sprintf("%.2f", benchmark.SharpeRatio),
			fmt.Sprintf("%.2f%%", benchmark.MaxDrawdownPct),
			"-")
	}
}

// WriteRegimeTimeline renders the rebalance history of a run, marking
// the points where the regime changed.
func WriteRegimeTimeline(w io.Writer, result *types.MacroBacktestResult) {
	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No rebalance points recorded.")
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %-22s %-10s %-12s %s", "Date", "Regime", "Composite", "Equity", "Allocation")))

	for _, period := range result.Periods {
		marker := " "
		if period.AllocChanged {
			marker = "*"
		}

		fmt.Fprintf(w, "%-12s %s %-20s %-10.1f %-12.2f %s\n",
			period.Date.Format("2006-01"),
			marker,
			regimeLabel(period.Regime),
			period.Scores.Composite,
			period.Equity,
			formatAllocation(period.Alloc))
	}

	fmt.Fprintln(w, "* regime changed at this rebalance")
}

func frequencyLabel(frequency types.RebalanceFrequency) string {
	switch frequency {
	case types.RebalanceMonthly:
		return "Monthly"
	case types.RebalanceQuarterly:
		return "Quarterly"
	case types.RebalanceAnnually:
		return "Annually"
	case types.RebalanceBuyAndHold:
		return "Buy & hold"
	default:
		return string(frequency)
	}
}

func formatAllocation(alloc types.Allocation) string {
	parts := []string{
		fmt.Sprintf("stocks %.0f%%", alloc.Stocks),
		fmt.Sprintf("gold %.0f%%", alloc.Gold),
		fmt.Sprintf("metals %.0f%%", alloc.Metals),
		fmt.Sprintf("bonds %.0f%%", alloc.Bonds),
		fmt.Sprintf("cash %.0f%%", alloc.Cash),
	}

	return strings.Join(parts, " / ")
}
