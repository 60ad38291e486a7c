package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "bulletin",
		Usage:    "Edit, persist, and publish the company newsletter",
		Version:  "0.3.0",
		Commands: runner.register(),
	}
}
