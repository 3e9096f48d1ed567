package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-quant/internal/config"
	"github.com/urfave/cli/v3"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the schema to a file instead of stdout",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schemaJSON, err := config.Default().GenerateSchemaJSON()
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		return os.WriteFile(output, []byte(schemaJSON), 0644)
	}

	fmt.Println(schemaJSON)

	return nil
}
