// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the newsletter API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the newsletter API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Host to bind to (overrides config)",
				Aliases: []string{"H"},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on (overrides config)",
				Aliases: []string{"p"},
			},
			&cli.IntFlag{
				Name:  "rate-limit",
				Usage: "Requests per second before throttling",
				Value: 25,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				Aliases: []string{"v"},
			},
		},
		Action: r.Serve,
	}
}

// setupCommand initializes configuration and the storage engine
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the storage engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// seedCommand fills one period with sample content
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Seed the store with a sample January 2026 newsletter",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite the period if it already has content",
			},
		},
		Action: r.Seed,
	}
}

// periodsCommand lists newsletter periods by recent activity
func periodsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "periods",
		Usage: "List newsletter periods by most recent activity",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of periods to list",
				Value: 10,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Number of periods to skip",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Periods,
	}
}

// exportCommand writes one period's content to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export one period's newsletter to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "month",
				Aliases:  []string{"m"},
				Usage:    "Period month, e.g. January",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "year",
				Aliases:  []string{"y"},
				Usage:    "Period year, e.g. 2026",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}
