package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/db"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// Setup initializes the configuration file and the storage engine.
//
// A missing config file is created from the embedded template. The
// engine the selector picks is then opened once so its schema exists
// before the first request.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.config = config
	r.manager = db.NewManager(db.OptionsFromEnv(config, r.logger))

	r.logger.Info("initializing storage engine", "path", config.Database.Path)

	if _, err := r.manager.Acquire(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer r.manager.Release()

	r.writePlain("%s\n", r.palette.OK("✓ Setup complete"))
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Database: %s\n", config.Database.Path)
	return nil
}
