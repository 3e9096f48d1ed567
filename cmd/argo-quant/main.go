package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "argo-quant",
		Usage: "Strategy backtesting and macro regime allocation",
		Commands: []*cli.Command{
			backtestCommand(),
			macroCommand(),
			macroBacktestCommand(),
			schemaCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
