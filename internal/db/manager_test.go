package db

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsroom-tools/bulletin/internal/shared"
)

func TestManagerSelection(t *testing.T) {
	t.Run("force in-memory wins over mode", func(t *testing.T) {
		m := NewManager(Options{
			Mode:          shared.ModeProduction,
			ForceInMemory: true,
			Logger:        newQuietLogger(),
		})
		defer m.Release()

		conn, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		if _, ok := conn.(*memoryConn); !ok {
			t.Errorf("expected the emulator, got %T", conn)
		}
	})

	t.Run("test mode uses the emulator", func(t *testing.T) {
		m := NewManager(Options{Mode: shared.ModeTest, Logger: newQuietLogger()})
		defer m.Release()

		conn, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		if _, ok := conn.(*memoryConn); !ok {
			t.Errorf("expected the emulator, got %T", conn)
		}
	})

	t.Run("production opens the embedded engine", func(t *testing.T) {
		m := NewManager(Options{
			DatabasePath: filepath.Join(t.TempDir(), "bulletin.db"),
			Mode:         shared.ModeProduction,
			Logger:       newQuietLogger(),
		})
		defer m.Release()

		conn, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		if _, ok := conn.(*sqliteConn); !ok {
			t.Errorf("expected the embedded engine, got %T", conn)
		}
	})

	t.Run("production failure is fatal with remediation", func(t *testing.T) {
		m := NewManager(Options{
			// A directory is not a valid database file.
			DatabasePath: t.TempDir(),
			Mode:         shared.ModeProduction,
			Logger:       newQuietLogger(),
		})

		_, err := m.Acquire()
		if err == nil {
			t.Fatal("expected a fatal configuration error")
		}
		if !errors.Is(err, shared.ErrEngineUnavailable) {
			t.Errorf("expected ErrEngineUnavailable, got %v", err)
		}
		if !strings.Contains(err.Error(), shared.EnvInMemory) {
			t.Errorf("expected remediation guidance in %q", err.Error())
		}
	})
}

func TestManagerMemoization(t *testing.T) {
	t.Run("acquire twice returns the same store", func(t *testing.T) {
		m := NewManager(Options{Mode: shared.ModeTest, ForceInMemory: true, Logger: newQuietLogger()})
		defer m.Release()

		first, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}

		stmt, err := first.Prepare(insertPeriodQuery)
		if err != nil {
			t.Fatalf("failed to prepare: %v", err)
		}
		if _, err := stmt.Run("March", "2027"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		second, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to re-acquire: %v", err)
		}
		if first != second {
			t.Fatal("expected the same connection handle from both acquisitions")
		}

		lookup, err := second.Prepare(selectPeriodQuery)
		if err != nil {
			t.Fatalf("failed to prepare lookup: %v", err)
		}
		row, err := lookup.Get("March", "2027")
		if err != nil {
			t.Fatalf("failed to look up period: %v", err)
		}
		if row == nil {
			t.Error("mutation from the first acquisition should be visible to the second")
		}
	})

	t.Run("release creates a fresh connection", func(t *testing.T) {
		m := NewManager(Options{Mode: shared.ModeTest, Logger: newQuietLogger()})

		first, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to acquire: %v", err)
		}
		if err := m.Release(); err != nil {
			t.Fatalf("failed to release: %v", err)
		}

		second, err := m.Acquire()
		if err != nil {
			t.Fatalf("failed to re-acquire: %v", err)
		}
		defer m.Release()

		if first == second {
			t.Error("expected a new connection after release")
		}
	})

	t.Run("release without acquire is safe", func(t *testing.T) {
		m := NewManager(Options{Mode: shared.ModeTest, Logger: newQuietLogger()})
		if err := m.Release(); err != nil {
			t.Errorf("release on empty manager should be nil, got %v", err)
		}
	})
}

func TestManagerSchemaInit(t *testing.T) {
	// Schema init runs over Exec on both engines; on the emulator every
	// statement is a recognized no-op, so acquisition must not fail.
	var buf bytes.Buffer
	m := NewManager(Options{Mode: shared.ModeDevelopment, Logger: newBufferLogger(&buf)})
	defer m.Release()

	if _, err := m.Acquire(); err != nil {
		t.Fatalf("failed to acquire with schema init: %v", err)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(shared.EnvMode, "production")
	t.Setenv(shared.EnvInMemory, "1")

	cfg := shared.DefaultConfig()
	opts := OptionsFromEnv(cfg, newQuietLogger())

	if opts.Mode != shared.ModeProduction {
		t.Errorf("expected production mode, got %v", opts.Mode)
	}
	if !opts.ForceInMemory {
		t.Error("expected force-in-memory set")
	}
	if opts.DatabasePath != cfg.Database.Path {
		t.Errorf("expected database path %s, got %s", cfg.Database.Path, opts.DatabasePath)
	}
	if opts.SnapshotPath != cfg.Database.SnapshotPath {
		t.Errorf("expected snapshot path %s, got %s", cfg.Database.SnapshotPath, opts.SnapshotPath)
	}
}
