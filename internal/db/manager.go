package db

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// Options configures the engine selection policy.
//
// Mode and ForceInMemory come from the process environment and are read
// once, at acquisition time (see [OptionsFromEnv]).
type Options struct {
	DatabasePath  string
	SnapshotPath  string
	Mode          shared.Mode
	ForceInMemory bool
	Logger        *log.Logger
}

// allowFallback reports whether the emulator may substitute for an
// unavailable embedded engine instead of failing hard.
func (o Options) allowFallback() bool {
	return o.ForceInMemory || o.Mode != shared.ModeProduction
}

// OptionsFromEnv builds Options from the loaded config plus the two
// environment inputs the selector consumes.
func OptionsFromEnv(cfg *shared.Config, logger *log.Logger) Options {
	return Options{
		DatabasePath:  cfg.Database.Path,
		SnapshotPath:  cfg.Database.SnapshotPath,
		Mode:          shared.ModeFromEnv(),
		ForceInMemory: shared.ForceInMemoryFromEnv(),
		Logger:        logger,
	}
}

// Manager selects and memoizes the process-wide connection.
//
// The first Acquire decides between the embedded engine and the
// emulator and caches the handle; subsequent calls return the same
// handle. Release closes and discards it so the next Acquire starts
// fresh, which is how isolated test runs reset state.
type Manager struct {
	mu   sync.Mutex
	opts Options
	conn Connection
}

// NewManager creates a Manager with the given options.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Manager{opts: opts}
}

// Acquire returns the memoized connection, creating it on first call.
// On first successful acquisition the schema is initialized
// idempotently through the connection's Exec channel.
func (m *Manager) Acquire() (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return m.conn, nil
	}

	conn, err := m.open()
	if err != nil {
		return nil, err
	}

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	m.conn = conn
	return conn, nil
}

// open applies the selection policy:
//
//  1. A force-in-memory override always selects the emulator.
//  2. Non-production modes select the emulator, keeping development and
//     test runs free of native-engine dependencies.
//  3. Otherwise the embedded engine is initialized.
//  4. If that fails and the configuration permits fallback, the
//     emulator substitutes with a logged warning; in any other mode the
//     failure is fatal with remediation guidance.
func (m *Manager) open() (Connection, error) {
	logger := m.opts.Logger

	if m.opts.ForceInMemory {
		logger.Debug("in-memory store forced by configuration")
		return openMemory(m.opts.SnapshotPath, logger), nil
	}

	if m.opts.Mode != shared.ModeProduction {
		logger.Debug("using in-memory store", "mode", m.opts.Mode)
		return openMemory(m.opts.SnapshotPath, logger), nil
	}

	conn, err := openSQLite(m.opts.DatabasePath)
	if err != nil {
		if m.opts.allowFallback() {
			logger.Warn("embedded engine unavailable, falling back to in-memory store", "error", err)
			return openMemory(m.opts.SnapshotPath, logger), nil
		}
		return nil, fmt.Errorf("%w: %v (repair the database file at %s, or set %s=1 to run with the in-memory store)",
			shared.ErrEngineUnavailable, err, m.opts.DatabasePath, shared.EnvInMemory)
	}

	return conn, nil
}

// Release closes and discards the memoized connection. A subsequent
// Acquire creates a fresh one. Safe to call when nothing is held.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}

	err := m.conn.Close()
	m.conn = nil
	return err
}
