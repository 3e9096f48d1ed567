package main

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/macro"
	"github.com/rxtech-lab/argo-quant/internal/server"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve macro analysis over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			fredKeyFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
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

	scorer := macro.NewScorer(cfg, log)
	analyzer := macro.NewAnalyzer(scorer, marketdata.NewFREDClient(key), marketdata.NewFearGreedClient(), log)

	return server.NewServer(analyzer, log).ListenAndServe(ctx, cmd.String("addr"))
}
