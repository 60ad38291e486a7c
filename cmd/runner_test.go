package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsroom-tools/bulletin/internal/db"
	"github.com/newsroom-tools/bulletin/internal/shared"
	tu "github.com/newsroom-tools/bulletin/internal/testing"
)

// newTestRunner builds a Runner over an in-memory engine with captured output.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	logger := shared.NewLogger(io.Discard)

	// Commands release the connection when they finish, so state has to
	// survive through the snapshot file.
	manager := db.NewManager(db.Options{
		Mode:         shared.ModeTest,
		SnapshotPath: filepath.Join(t.TempDir(), "snapshot.json"),
		Logger:       logger,
	})
	t.Cleanup(func() { manager.Release() })

	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Manager: manager,
		Logger:  logger,
		Output:  output,
	})
	return runner, output
}

func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := newApp(runner)
	return app.Run(context.Background(), append([]string{"bulletin"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			manager := db.NewManager(db.Options{Mode: shared.ModeTest, Logger: logger})

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Manager: manager,
				Logger:  logger,
				Output:  output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.manager != manager {
				t.Error("expected manager to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected stdout output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runner.writeJSON(map[string]string{"status": "ok"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(output.String(), `"status":"ok"`) {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("writeJSON surfaces trailing newline failures", func(t *testing.T) {
		w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		runner := NewRunner(RunnerOpts{
			Output: &w,
			Logger: shared.NewLogger(io.Discard),
			Manager: db.NewManager(db.Options{
				Mode:   shared.ModeTest,
				Logger: shared.NewLogger(io.Discard),
			}),
		})

		err := runner.writeJSON(map[string]string{"status": "ok"}, false)
		if err == nil || !strings.Contains(err.Error(), "newline") {
			t.Errorf("expected newline write error, got %v", err)
		}
	})

	t.Run("writeJSON surfaces writer failures", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Output: &tu.FWriter{},
			Logger: shared.NewLogger(io.Discard),
			Manager: db.NewManager(db.Options{
				Mode:   shared.ModeTest,
				Logger: shared.NewLogger(io.Discard),
			}),
		})

		if err := runner.writeJSON(map[string]string{"status": "ok"}, false); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestSeedCommand(t *testing.T) {
	t.Run("seeds the sample period", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runCommand(t, runner, "seed"); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if !strings.Contains(output.String(), "Seeded January 2026") {
			t.Errorf("unexpected output: %s", output.String())
		}

		repo, err := runner.repository()
		if err != nil {
			t.Fatalf("failed to acquire repository: %v", err)
		}
		data, err := repo.Load(seedMonth, seedYear)
		if err != nil {
			t.Fatalf("failed to load seeded period: %v", err)
		}
		if len(data.NewHires) != 1 || data.NewHires[0].Name != "Alice Example" {
			t.Errorf("expected Alice Example seeded, got %v", data.NewHires)
		}
		if len(data.NewHires[0].Comments) != 1 {
			t.Errorf("expected the welcome comment, got %v", data.NewHires[0].Comments)
		}
		if len(data.Promotions) != 1 || len(data.Transfers) != 1 {
			t.Errorf("expected promotion and transfer seeded")
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runCommand(t, runner, "seed"); err != nil {
			t.Fatalf("first seed failed: %v", err)
		}
		output.Reset()

		if err := runCommand(t, runner, "seed"); err != nil {
			t.Fatalf("second seed failed: %v", err)
		}
		if !strings.Contains(output.String(), "already has content") {
			t.Errorf("expected overwrite warning, got: %s", output.String())
		}

		output.Reset()
		if err := runCommand(t, runner, "seed", "--force"); err != nil {
			t.Fatalf("forced seed failed: %v", err)
		}
		if !strings.Contains(output.String(), "Seeded January 2026") {
			t.Errorf("expected forced seed to succeed, got: %s", output.String())
		}
	})
}

func TestPeriodsCommand(t *testing.T) {
	t.Run("lists seeded periods as JSON", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runCommand(t, runner, "seed"); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		output.Reset()

		if err := runCommand(t, runner, "periods", "--json"); err != nil {
			t.Fatalf("periods failed: %v", err)
		}
		if !strings.Contains(output.String(), `"month": "January"`) {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("reports an empty store", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runCommand(t, runner, "periods"); err != nil {
			t.Fatalf("periods failed: %v", err)
		}
		if !strings.Contains(output.String(), "no newsletter periods yet") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})
}

func TestExportCommand(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runCommand(t, runner, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "january.md")
	if err := runCommand(t, runner, "export", "--month", "January", "--year", "2026", "--format", "markdown", "--output", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	tu.AssertFileExists(t, path)
	content := tu.MustReadFile(t, path)
	if !strings.Contains(content, "# January 2026 Newsletter") {
		t.Errorf("unexpected export content: %s", content)
	}
	if !strings.Contains(content, "Alice Example") {
		t.Errorf("expected seeded employee in export")
	}
	if !strings.Contains(output.String(), "Exported January 2026") {
		t.Errorf("unexpected output: %s", output.String())
	}
}

func TestSetupCommand(t *testing.T) {
	t.Run("creates a config file from the template", func(t *testing.T) {
		dir := t.TempDir()
		cwd := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		t.Cleanup(func() { tu.MustChdir(t, cwd) })

		t.Setenv(shared.EnvMode, "test")

		runner, output := newTestRunner(t)
		if err := runCommand(t, runner, "setup", "--config", "config.toml"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		if !strings.Contains(output.String(), "Setup complete") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})
}
