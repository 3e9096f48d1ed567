package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/macro"
	"github.com/rxtech-lab/argo-quant/internal/report"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// defaultBacktestYears is the simulated window when the config sets no
// start date.
const defaultBacktestYears = 10

func macroBacktestCommand() *cli.Command {
	return &cli.Command{
		Name:  "macro-backtest",
		Usage: "Backtest regime-driven allocations against a buy-and-hold benchmark",
		Flags: []cli.Flag{
			configFlag(),
			fredKeyFlag(),
			&cli.BoolFlag{
				Name:  "timeline",
				Usage: "Print the regime timeline of each run",
			},
		},
		Action: macroBacktestAction,
	}
}

func backtestWindow(cfg *config.Config) (time.Time, time.Time) {
	now := time.Now().UTC()

	start := now.AddDate(-defaultBacktestYears, 0, 0)
	if cfg.Backtest.StartDate.IsSome() {
		start = cfg.Backtest.StartDate.Unwrap()
	}

	end := now
	if cfg.Backtest.EndDate.IsSome() {
		end = cfg.Backtest.EndDate.Unwrap()
	}

	return start, end
}

// fetchAssetReturns pulls monthly bars per configured asset and aligns
// each return series to the benchmark month count.
func fetchAssetReturns(ctx context.Context, prices marketdata.PriceProvider, cfg *config.Config, start, end time.Time, months int, log *logger.Logger) map[string][]float64 {
	assetReturns := make(map[string][]float64, len(cfg.AssetTickers))

	for asset, ticker := range cfg.AssetTickers {
		series, err := prices.GetPriceSeries(ctx, ticker, start, end, marketdata.IntervalMonthly)
		if err != nil {
			log.Warn("Skipping asset", zap.String("asset", asset), zap.String("ticker", ticker), zap.Error(err))
			continue
		}

		assetReturns[asset] = macro.AlignReturns(series.MonthlyReturns(), months)
	}

	return assetReturns
}

func fetchFREDSeries(ctx context.Context, economic marketdata.EconomicProvider, start, end time.Time, log *logger.Logger) map[string]*types.EconomicSeries {
	fredData := make(map[string]*types.EconomicSeries, len(macro.AllSeriesIDs))

	for _, id := range macro.AllSeriesIDs {
		series, err := economic.GetSeries(ctx, id, start, end, "m")
		if err != nil {
			log.Warn("Skipping series", zap.String("series_id", id), zap.Error(err))
			continue
		}

		if series.Len() > 0 {
			fredData[id] = series
		}
	}

	return fredData
}

func macroBacktestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	key, err := fredAPIKey(cmd)
	if err != nil {
		return err
	}

	start, end := backtestWindow(cfg)
	prices := marketdata.NewYahooClient()

	// The benchmark's monthly bars define the simulation calendar.
	benchmarkTicker := cfg.Backtest.BenchmarkTicker()

	benchmarkSeries, err := prices.GetPriceSeries(ctx, benchmarkTicker, start, end, marketdata.IntervalMonthly)
	if err != nil {
		return err
	}

	benchmarkReturns := benchmarkSeries.MonthlyReturns()
	dates := benchmarkSeries.ReturnDates()

	if len(benchmarkReturns) == 0 {
		return errors.Newf(errors.ErrCodeBenchmarkMissing, "benchmark %s returned no usable months", benchmarkTicker)
	}

	assetReturns := fetchAssetReturns(ctx, prices, cfg, start, end, len(benchmarkReturns), log)
	fredData := fetchFREDSeries(ctx, marketdata.NewFREDClient(key), start, end, log)

	scorer := macro.NewScorer(cfg, log)
	backtester := macro.NewBacktester(scorer, log)
	capital := cfg.Backtest.Capital()

	runs := make([]*types.MacroBacktestResult, 0, len(cfg.Backtest.Frequencies()))

	for _, frequency := range cfg.Backtest.Frequencies() {
		runs = append(runs, backtester.Run(fredData, assetReturns, dates, frequency, capital))
	}

	benchmark := backtester.ComputeBenchmark(benchmarkReturns, capital)

	report.WriteMacroComparison(os.Stdout, runs, benchmark, benchmarkTicker)

	if cmd.Bool("timeline") {
		for _, run := range runs {
			fmt.Println()
			report.WriteRegimeTimeline(os.Stdout, run)
		}
	}

	return nil
}
