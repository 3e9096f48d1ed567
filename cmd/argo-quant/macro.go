package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/macro"
	"github.com/rxtech-lab/argo-quant/internal/report"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

// fredKeyEnv is the environment variable the FRED API key is read from
// when the flag is not set.
const fredKeyEnv = "FRED_API_KEY"

func macroCommand() *cli.Command {
	return &cli.Command{
		Name:  "macro",
		Usage: "Run a live macro analysis: scores, regime and target allocation",
		Flags: []cli.Flag{
			configFlag(),
			fredKeyFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the analysis as JSON instead of the console report",
			},
			&cli.BoolFlag{
				Name:  "no-sentiment",
				Usage: "Skip the fear/greed fetch",
			},
		},
		Action: macroAction,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"C"},
		Usage:   "Path to a YAML config file (defaults apply when omitted)",
	}
}

func fredKeyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "fred-key",
		Usage: fmt.Sprintf("FRED API key (falls back to $%s)", fredKeyEnv),
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFile(path)
	}

	return config.Default(), nil
}

func fredAPIKey(cmd *cli.Command) (string, error) {
	key := cmd.String("fred-key")
	if key == "" {
		key = os.Getenv(fredKeyEnv)
	}

	if key == "" {
		return "", errors.Newf(errors.ErrCodeMissingAPIKey, "no FRED API key: set --fred-key or $%s", fredKeyEnv)
	}

	return key, nil
}

func macroAction(ctx context.Context, cmd *cli.Command) error {
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

	var sentiment marketdata.SentimentProvider
	if !cmd.Bool("no-sentiment") {
		sentiment = marketdata.NewFearGreedClient()
	}

	scorer := macro.NewScorer(cfg, log)
	analyzer := macro.NewAnalyzer(scorer, marketdata.NewFREDClient(key), sentiment, log)

	analysis, err := analyzer.Analyze(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(analysis)
	}

	report.WriteAnalysis(os.Stdout, analysis)

	return nil
}
