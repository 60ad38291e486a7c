package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/db"
	"github.com/newsroom-tools/bulletin/internal/repositories"
	"github.com/newsroom-tools/bulletin/internal/shared"
	"github.com/newsroom-tools/bulletin/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	manager *db.Manager
	logger  *log.Logger
	output  io.Writer
	palette *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Manager *db.Manager
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Manager == nil {
		opts.Manager = db.NewManager(db.OptionsFromEnv(opts.Config, opts.Logger))
	}

	return &Runner{
		config:  opts.Config,
		manager: opts.Manager,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: ui.Default(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, seedCommand, periodsCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// repository acquires the process-wide connection and wraps it.
func (r *Runner) repository() (*repositories.NewsletterRepository, error) {
	conn, err := r.manager.Acquire()
	if err != nil {
		return nil, err
	}
	return repositories.NewNewsletterRepository(conn), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
