package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/models"
)

const (
	seedMonth = "January"
	seedYear  = "2026"
)

// seedNewsletter returns the sample content the seed command installs.
func seedNewsletter() *models.NewsletterData {
	data := models.NewNewsletterData(seedMonth, seedYear)
	data.NewHires = []models.Employee{
		{
			Name:        "Alice Example",
			Position:    "Software Engineer",
			Department:  "Engineering",
			Date:        "2026-01-05",
			Achievement: "Joined the backend team",
			PhotoURL:    "https://images.example.com/alice.jpg",
		},
	}
	data.Promotions = []models.Employee{
		{
			Name:        "Bob Example",
			Position:    "Senior PM",
			Department:  "Products",
			Date:        "2026-01-15",
			Achievement: "Promoted from PM to Senior PM",
			PhotoURL:    "/assets/bob.png",
		},
	}
	data.Transfers = []models.Employee{
		{
			Name:       "Chris Example",
			Position:   "Analyst",
			Department: "Finance",
			Date:       "2026-01-20",
		},
	}
	return data
}

// Seed installs one sample newsletter period with a welcome comment.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}
	defer r.manager.Release()

	existing, err := repo.Load(seedMonth, seedYear)
	if err != nil {
		return fmt.Errorf("failed to inspect seed period: %w", err)
	}
	if len(existing.NewHires) > 0 && !cmd.Bool("force") {
		r.writePlain("%s\n", r.palette.Warn(fmt.Sprintf("%s %s already has content, use --force to overwrite", seedMonth, seedYear)))
		return nil
	}

	if err := repo.Save(seedMonth, seedYear, seedNewsletter()); err != nil {
		return fmt.Errorf("failed to seed newsletter: %w", err)
	}

	saved, err := repo.Load(seedMonth, seedYear)
	if err != nil {
		return fmt.Errorf("failed to reload seeded period: %w", err)
	}
	if len(saved.NewHires) > 0 {
		entryID, err := strconv.ParseInt(saved.NewHires[0].ID, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse seeded entry id: %w", err)
		}
		if _, err := repo.AddComment(entryID, "Admin", "Welcome to the team, Alice!"); err != nil {
			return fmt.Errorf("failed to add seed comment: %w", err)
		}
	}

	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("✓ Seeded %s %s", seedMonth, seedYear)))
	return nil
}
