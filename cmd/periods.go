package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Periods lists newsletter periods by most recent activity.
func (r *Runner) Periods(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}
	defer r.manager.Release()

	periods, err := repo.RecentPeriods(int64(cmd.Int("limit")), int64(cmd.Int("offset")))
	if err != nil {
		return fmt.Errorf("failed to list periods: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(periods, true)
	}

	if len(periods) == 0 {
		r.writePlain("%s\n", r.palette.Help("no newsletter periods yet"))
		return nil
	}

	r.writePlain("%s\n", r.palette.Title("Newsletter periods"))
	for _, p := range periods {
		activity := ""
		if p.UpdatedAt != nil {
			activity = *p.UpdatedAt
		} else if p.CreatedAt != nil {
			activity = *p.CreatedAt
		}
		r.writePlain("%s %s\t%s\n", p.Month, p.Year, r.palette.Help(activity))
	}
	return nil
}
