package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/formatter"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// Export writes one period's newsletter content to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	month := cmd.String("month")
	year := cmd.String("year")

	switch format := cmd.String("format"); format {
	case "json", "csv", "markdown", "md", "txt", "text", "":
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}
	defer r.manager.Release()

	data, err := repo.Load(month, year)
	if err != nil {
		return fmt.Errorf("failed to load newsletter: %w", err)
	}

	path, err := formatter.WriteExport(data, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("✓ Exported %s %s to %s", month, year, path)))
	return nil
}
