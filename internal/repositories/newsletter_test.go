package repositories

import (
	"io"
	"strconv"
	"testing"

	"github.com/newsroom-tools/bulletin/internal/db"
	"github.com/newsroom-tools/bulletin/internal/models"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// setupTestRepo provisions a repository over a fresh in-memory engine.
func setupTestRepo(t *testing.T) *NewsletterRepository {
	t.Helper()

	m := db.NewManager(db.Options{
		Mode:   shared.ModeTest,
		Logger: shared.NewLogger(io.Discard),
	})
	conn, err := m.Acquire()
	if err != nil {
		t.Fatalf("failed to acquire connection: %v", err)
	}
	t.Cleanup(func() { m.Release() })

	return NewNewsletterRepository(conn)
}

func sampleData() *models.NewsletterData {
	data := models.NewNewsletterData("March", "2027")
	data.NewHires = []models.Employee{
		{Name: "Grace Banda", Position: "Engineer", Department: "R&D"},
		{Name: "Mphatso Gondwe", Position: "Designer", Department: "UX"},
	}
	data.Transfers = []models.Employee{
		{Name: "Pemphero Phiri", Position: "Analyst", Department: "Finance", FromDepartment: "Ops", ToDepartment: "Finance"},
	}
	data.BestEmployee = &models.Employee{Name: "Takondwa Mbewe", Position: "Lead", Department: "Support", Achievement: "Customer hero"}
	data.Events = []models.Event{
		{Title: "Team Offsite", Date: "2027-03-15", Description: "Annual retreat"},
	}
	return data
}

func TestGetOrCreatePeriodID(t *testing.T) {
	repo := setupTestRepo(t)

	id, created, err := repo.GetOrCreatePeriodID("March", "2027")
	if err != nil {
		t.Fatalf("failed to get-or-create: %v", err)
	}
	if !created {
		t.Error("expected first reference to create the period")
	}
	if id <= 0 {
		t.Errorf("expected positive identity, got %d", id)
	}

	again, created, err := repo.GetOrCreatePeriodID("March", "2027")
	if err != nil {
		t.Fatalf("failed on second reference: %v", err)
	}
	if created {
		t.Error("expected second reference to find the existing period")
	}
	if again != id {
		t.Errorf("expected identity %d, got %d", id, again)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Run("round trip preserves grouping and order", func(t *testing.T) {
		repo := setupTestRepo(t)

		if err := repo.Save("March", "2027", sampleData()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := repo.Load("March", "2027")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		if len(loaded.NewHires) != 2 {
			t.Fatalf("expected 2 new hires, got %d", len(loaded.NewHires))
		}
		if loaded.NewHires[0].Name != "Grace Banda" || loaded.NewHires[1].Name != "Mphatso Gondwe" {
			t.Errorf("new hires out of order: %v", loaded.NewHires)
		}

		if len(loaded.Transfers) != 1 {
			t.Fatalf("expected 1 transfer, got %d", len(loaded.Transfers))
		}
		if loaded.Transfers[0].FromDepartment != "Ops" || loaded.Transfers[0].ToDepartment != "Finance" {
			t.Errorf("transfer departments lost: %+v", loaded.Transfers[0])
		}

		if loaded.BestEmployee == nil || loaded.BestEmployee.Name != "Takondwa Mbewe" {
			t.Errorf("best employee lost: %+v", loaded.BestEmployee)
		}
		if loaded.BestPerformer != nil {
			t.Errorf("expected no best performer, got %+v", loaded.BestPerformer)
		}

		if len(loaded.Events) != 1 || loaded.Events[0].Title != "Team Offsite" {
			t.Errorf("events lost: %v", loaded.Events)
		}
	})

	t.Run("save replaces wholesale", func(t *testing.T) {
		repo := setupTestRepo(t)

		if err := repo.Save("March", "2027", sampleData()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		replacement := models.NewNewsletterData("March", "2027")
		replacement.Birthdays = []models.Employee{{Name: "Chikondi Moyo", Position: "PM", Department: "Product"}}
		if err := repo.Save("March", "2027", replacement); err != nil {
			t.Fatalf("failed to re-save: %v", err)
		}

		loaded, err := repo.Load("March", "2027")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		if len(loaded.NewHires) != 0 || len(loaded.Events) != 0 || loaded.BestEmployee != nil {
			t.Error("expected previous content replaced")
		}
		if len(loaded.Birthdays) != 1 || loaded.Birthdays[0].Name != "Chikondi Moyo" {
			t.Errorf("expected replacement content, got %v", loaded.Birthdays)
		}
	})

	t.Run("load of untouched period returns empty data", func(t *testing.T) {
		repo := setupTestRepo(t)

		loaded, err := repo.Load("July", "2027")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if loaded.Month != "July" || loaded.Year != "2027" {
			t.Errorf("expected July/2027, got %s/%s", loaded.Month, loaded.Year)
		}
		if len(loaded.NewHires) != 0 {
			t.Errorf("expected empty content, got %v", loaded.NewHires)
		}
	})

	t.Run("save validates the period key", func(t *testing.T) {
		repo := setupTestRepo(t)

		if err := repo.Save("", "2027", models.NewNewsletterData("", "2027")); err == nil {
			t.Error("expected validation error for missing month")
		}
	})
}

func TestComments(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Save("March", "2027", sampleData()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := repo.Load("March", "2027")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	entryID, err := strconv.ParseInt(loaded.NewHires[0].ID, 10, 64)
	if err != nil {
		t.Fatalf("failed to parse entry id: %v", err)
	}

	comment, err := repo.AddComment(entryID, "hr", "Welcome aboard!")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}
	if comment.ID == "" || comment.User != "hr" {
		t.Errorf("unexpected comment: %+v", comment)
	}

	reloaded, err := repo.Load("March", "2027")
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	comments := reloaded.NewHires[0].Comments
	if len(comments) != 1 || comments[0].Content != "Welcome aboard!" {
		t.Errorf("expected the comment attached to the entry, got %v", comments)
	}
	if len(reloaded.NewHires[1].Comments) != 0 {
		t.Error("comment leaked onto the wrong entry")
	}
}

func TestRecentPeriods(t *testing.T) {
	repo := setupTestRepo(t)

	for _, p := range [][2]string{{"January", "2027"}, {"February", "2027"}, {"March", "2027"}} {
		if _, _, err := repo.GetOrCreatePeriodID(p[0], p[1]); err != nil {
			t.Fatalf("failed to create period: %v", err)
		}
	}

	// Saving January makes it the most recently active period.
	if err := repo.Save("January", "2027", models.NewNewsletterData("January", "2027")); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	periods, err := repo.RecentPeriods(2, 0)
	if err != nil {
		t.Fatalf("failed to list periods: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Month != "January" {
		t.Errorf("expected January first, got %s", periods[0].Month)
	}
	if periods[0].UpdatedAt == nil {
		t.Error("expected updatedAt populated")
	}
}

func TestFeed(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Save("February", "2027", sampleData()); err != nil {
		t.Fatalf("failed to save February: %v", err)
	}

	march := models.NewNewsletterData("March", "2027")
	march.NewHires = []models.Employee{{Name: "Limbani Kachale", Position: "SRE", Department: "Infra"}}
	if err := repo.Save("March", "2027", march); err != nil {
		t.Fatalf("failed to save March: %v", err)
	}

	items, err := repo.Feed()
	if err != nil {
		t.Fatalf("failed to build feed: %v", err)
	}

	// sampleData carries 5 entries, March adds 1.
	if len(items) != 6 {
		t.Fatalf("expected 6 feed items, got %d", len(items))
	}
	if items[0].Name != "Limbani Kachale" || items[0].Month != "March" {
		t.Errorf("expected the newest entry first, got %+v", items[0])
	}

	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt > items[i-1].CreatedAt {
			t.Fatalf("feed out of order at %d: %v then %v", i, items[i-1].CreatedAt, items[i].CreatedAt)
		}
	}
}
