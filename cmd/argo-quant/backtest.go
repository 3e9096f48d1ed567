package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/backtest"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/report"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Run a single-asset strategy backtest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Instrument ticker symbol",
				Value:   "SPY",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Load bars from a local OHLCV CSV file instead of Yahoo Finance",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"S"},
				Usage:   "Strategy to run: sma or rsi",
				Value:   "sma",
			},
			&cli.IntFlag{
				Name:  "short",
				Usage: "Short SMA window (sma strategy)",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "long",
				Usage: "Long SMA window (sma strategy)",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "period",
				Usage: "RSI period (rsi strategy)",
				Value: 14,
			},
			&cli.FloatFlag{
				Name:  "oversold",
				Usage: "RSI buy threshold (rsi strategy)",
				Value: 30,
			},
			&cli.FloatFlag{
				Name:  "overbought",
				Usage: "RSI sell threshold (rsi strategy)",
				Value: 70,
			},
			&cli.FloatFlag{
				Name:    "capital",
				Aliases: []string{"c"},
				Usage:   "Initial capital",
				Value:   10000,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the full result to a YAML file",
			},
			&cli.BoolFlag{
				Name:  "trades",
				Usage: "Print the individual trades",
			},
		},
		Action: backtestAction,
	}
}

func buildStrategy(cmd *cli.Command) (strategy.Strategy, error) {
	switch cmd.String("strategy") {
	case "sma":
		return strategy.NewSMACrossover(int(cmd.Int("short")), int(cmd.Int("long")))
	case "rsi":
		return strategy.NewRSIThreshold(int(cmd.Int("period")), cmd.Float("oversold"), cmd.Float("overbought"))
	default:
		return nil, fmt.Errorf("unknown strategy %q, expected sma or rsi", cmd.String("strategy"))
	}
}

func loadSeries(ctx context.Context, cmd *cli.Command) (*types.PriceSeries, error) {
	ticker := cmd.String("ticker")

	if path := cmd.String("csv"); path != "" {
		return marketdata.LoadPriceSeriesCSV(path, ticker)
	}

	client := marketdata.NewYahooClient()

	return client.GetPriceSeries(ctx, ticker, cmd.Timestamp("start"), cmd.Timestamp("end"), marketdata.IntervalDaily)
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	strat, err := buildStrategy(cmd)
	if err != nil {
		return err
	}

	series, err := loadSeries(ctx, cmd)
	if err != nil {
		return err
	}

	engine, err := backtest.NewEngine(cmd.Float("capital"), log)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(series.Len()), "backtesting")
	onProgress := optional.Some[backtest.ProgressCallback](func(current, total int) {
		_ = bar.Set(current)
	})

	result, err := engine.Run(strat, series, onProgress)
	if err != nil {
		return err
	}

	_ = bar.Finish()
	fmt.Println()

	report.WriteBacktestSummary(os.Stdout, result)

	if cmd.Bool("trades") {
		fmt.Println()
		report.WriteTrades(os.Stdout, result.Trades)
	}

	if output := cmd.String("output"); output != "" {
		if err := types.WriteResult(output, result); err != nil {
			return err
		}

		fmt.Printf("Result written to %s\n", output)
	}

	return nil
}
