package db

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// sqliteTimeLayout matches the text produced by CURRENT_TIMESTAMP so
// both engines stamp rows identically.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// memoryConn is the in-process relational emulator.
//
// It implements [Connection] over a [memStore], dispatching prepared
// statements by their classified kind. Mutations persist the whole store
// to the snapshot file; persistence failures are logged warnings and
// never fail the triggering operation. A single mutex serializes
// access, standing in for the single-threaded runtime the statement
// grammar assumes.
type memoryConn struct {
	mu     sync.Mutex
	store  *memStore
	path   string // snapshot file; empty disables persistence
	logger *log.Logger
	now    func() time.Time
	closed bool
}

// openMemory creates the emulator, restoring state from the snapshot
// file at path when one exists. An unreadable or corrupt snapshot is
// logged and replaced with an empty store rather than failing startup.
func openMemory(path string, logger *log.Logger) *memoryConn {
	c := &memoryConn{
		store:  newMemStore(),
		path:   path,
		logger: logger,
		now:    time.Now,
	}

	if path == "" {
		return c
	}

	if _, err := os.Stat(path); err != nil {
		return c
	}

	sn, err := readSnapshot(path)
	if err != nil {
		logger.Warn("failed to restore snapshot, starting empty", "path", path, "error", err)
		return c
	}

	c.store = sn.store()
	logger.Debug("restored snapshot",
		"path", path,
		"periods", len(c.store.periods),
		"entries", len(c.store.entries),
		"comments", len(c.store.comments))
	return c
}

// Prepare classifies the statement text once and returns a statement
// bound to the resulting kind. Unrecognized statements still prepare;
// they execute as empty-result no-ops.
func (c *memoryConn) Prepare(query string) (Statement, error) {
	kind := classify(query)
	if kind == stmtUnknown {
		c.logger.Debug("statement outside the recognized grammar", "query", query)
	}
	return &memoryStmt{conn: c, kind: kind}, nil
}

// Exec is the schema-definition channel. The emulator keeps no schema,
// so every statement issued here is a no-op.
func (c *memoryConn) Exec(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return shared.ErrConnectionClosed
	}
	switch kind := classify(query); {
	case kind == stmtUnknown:
		c.logger.Debug("statement outside the recognized grammar", "query", query)
	case kind.mutates():
		// Mutations carry parameters and belong on Prepare/Run.
		c.logger.Warn("mutating statement issued through Exec is ignored", "kind", kind)
	}
	return nil
}

// Transaction wraps fn with whole-state snapshot/rollback semantics:
// before fn runs, the store is deep-copied; if fn returns an error, the
// copy is restored and the error passes through unchanged, so no partial
// mutation is observable after a failed transaction.
func (c *memoryConn) Transaction(fn func() error) func() error {
	return func() error {
		c.mu.Lock()
		before := c.store.clone()
		c.mu.Unlock()

		if err := fn(); err != nil {
			c.mu.Lock()
			c.store = before
			// Rewrite the snapshot so the durable state matches the
			// rolled-back store, not the partial mutations.
			c.persistLocked()
			c.mu.Unlock()
			return err
		}
		return nil
	}
}

// Close discards the connection. Safe to call when already closed.
func (c *memoryConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// persistLocked serializes the entire store to the snapshot file.
// Durability is best effort: failures are logged and swallowed because
// correctness of the in-memory state is primary. Caller holds c.mu.
func (c *memoryConn) persistLocked() {
	if c.path == "" {
		return
	}
	if err := snapshotFrom(c.store).write(c.path); err != nil {
		c.logger.Warn("failed to persist snapshot", "path", c.path, "error", err)
	}
}

func (c *memoryConn) timestamp() string {
	return c.now().UTC().Format(sqliteTimeLayout)
}

// memoryStmt executes one classified statement against the store.
type memoryStmt struct {
	conn *memoryConn
	kind stmtKind
}

// Run executes a mutating statement. Non-mutating kinds, schema
// statements, and unrecognized statements return an empty Result with
// no error.
func (s *memoryStmt) Run(args ...any) (Result, error) {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Result{}, shared.ErrConnectionClosed
	}

	switch s.kind {
	case stmtInsertPeriod:
		if err := wantArgs(s.kind, args, 2); err != nil {
			return Result{}, err
		}
		month, err := argString(args[0])
		if err != nil {
			return Result{}, paramErr(s.kind, 1, err)
		}
		year, err := argString(args[1])
		if err != nil {
			return Result{}, paramErr(s.kind, 2, err)
		}
		id := c.store.insertPeriod(month, year, c.timestamp())
		c.persistLocked()
		return Result{LastInsertID: id, RowsAffected: 1}, nil

	case stmtTouchPeriod:
		if err := wantArgs(s.kind, args, 1); err != nil {
			return Result{}, err
		}
		id, err := argInt64(args[0])
		if err != nil {
			return Result{}, paramErr(s.kind, 1, err)
		}
		affected := c.store.touchPeriod(id, c.timestamp())
		c.persistLocked()
		return Result{RowsAffected: affected}, nil

	case stmtInsertEntry:
		row, err := entryFromArgs(args)
		if err != nil {
			return Result{}, err
		}
		id := c.store.insertEntry(row, c.timestamp())
		c.persistLocked()
		return Result{LastInsertID: id, RowsAffected: 1}, nil

	case stmtDeleteEntriesByPeriod:
		if err := wantArgs(s.kind, args, 1); err != nil {
			return Result{}, err
		}
		id, err := argInt64(args[0])
		if err != nil {
			return Result{}, paramErr(s.kind, 1, err)
		}
		removed := c.store.deleteEntriesByPeriod(id)
		c.persistLocked()
		return Result{RowsAffected: removed}, nil

	case stmtInsertComment:
		if err := wantArgs(s.kind, args, 3); err != nil {
			return Result{}, err
		}
		entryID, err := argInt64(args[0])
		if err != nil {
			return Result{}, paramErr(s.kind, 1, err)
		}
		user, err := argString(args[1])
		if err != nil {
			return Result{}, paramErr(s.kind, 2, err)
		}
		content, err := argString(args[2])
		if err != nil {
			return Result{}, paramErr(s.kind, 3, err)
		}
		// Mirrors the foreign key constraint the embedded engine enforces.
		if !c.store.entryExists(entryID) {
			return Result{}, fmt.Errorf("%w: id %d", shared.ErrEntryNotFound, entryID)
		}
		id := c.store.insertComment(entryID, user, content, c.timestamp())
		c.persistLocked()
		return Result{LastInsertID: id, RowsAffected: 1}, nil

	default:
		return Result{}, nil
	}
}

// Get returns the first matching row, or nil when nothing matches.
func (s *memoryStmt) Get(args ...any) (Row, error) {
	rows, err := s.All(args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// All returns every matching row. Unrecognized and schema statements
// return an empty slice rather than failing.
func (s *memoryStmt) All(args ...any) ([]Row, error) {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, shared.ErrConnectionClosed
	}

	switch s.kind {
	case stmtSelectPeriodByKey:
		if err := wantArgs(s.kind, args, 2); err != nil {
			return nil, err
		}
		month, err := argString(args[0])
		if err != nil {
			return nil, paramErr(s.kind, 1, err)
		}
		year, err := argString(args[1])
		if err != nil {
			return nil, paramErr(s.kind, 2, err)
		}
		if p := c.store.findPeriod(month, year); p != nil {
			return []Row{p.toRow()}, nil
		}
		return []Row{}, nil

	case stmtSelectRecentPeriods:
		if err := wantArgs(s.kind, args, 2); err != nil {
			return nil, err
		}
		limit, err := argInt64(args[0])
		if err != nil {
			return nil, paramErr(s.kind, 1, err)
		}
		offset, err := argInt64(args[1])
		if err != nil {
			return nil, paramErr(s.kind, 2, err)
		}
		periods := c.store.recentPeriods(limit, offset)
		rows := make([]Row, len(periods))
		for i, p := range periods {
			rows[i] = p.toSummaryRow()
		}
		return rows, nil

	case stmtSelectEntriesByPeriod:
		if err := wantArgs(s.kind, args, 1); err != nil {
			return nil, err
		}
		id, err := argInt64(args[0])
		if err != nil {
			return nil, paramErr(s.kind, 1, err)
		}
		entries := c.store.entriesByPeriod(id)
		rows := make([]Row, len(entries))
		for i, e := range entries {
			rows[i] = e.toRow()
		}
		return rows, nil

	case stmtSelectCommentsByEntryIDs:
		// The IN list makes the parameter count vary with list length.
		if len(args) == 0 {
			return []Row{}, nil
		}
		ids := make([]int64, len(args))
		for i, a := range args {
			id, err := argInt64(a)
			if err != nil {
				return nil, paramErr(s.kind, i+1, err)
			}
			ids[i] = id
		}
		comments := c.store.commentsByEntries(ids)
		rows := make([]Row, len(comments))
		for i, cm := range comments {
			rows[i] = cm.toRow()
		}
		return rows, nil

	default:
		return []Row{}, nil
	}
}

// entryFromArgs binds the insert-entry positional column list:
// newsletter_id, category, entry_type, name, position, department,
// from_department, to_department, date, achievement, photo_url, title,
// description, entry_order.
func entryFromArgs(args []any) (entryRow, error) {
	if err := wantArgs(stmtInsertEntry, args, 14); err != nil {
		return entryRow{}, err
	}

	periodID, err := argInt64(args[0])
	if err != nil {
		return entryRow{}, paramErr(stmtInsertEntry, 1, err)
	}
	category, err := argString(args[1])
	if err != nil {
		return entryRow{}, paramErr(stmtInsertEntry, 2, err)
	}
	entryType, err := argString(args[2])
	if err != nil {
		return entryRow{}, paramErr(stmtInsertEntry, 3, err)
	}
	order, err := argInt64(args[13])
	if err != nil {
		return entryRow{}, paramErr(stmtInsertEntry, 14, err)
	}

	row := entryRow{
		NewsletterID: periodID,
		Category:     category,
		EntryType:    entryType,
		EntryOrder:   order,
	}
	optional := []**string{
		&row.Name, &row.Position, &row.Department,
		&row.FromDepartment, &row.ToDepartment, &row.Date,
		&row.Achievement, &row.PhotoURL, &row.Title, &row.Description,
	}
	for i, field := range optional {
		v, err := argNullString(args[3+i])
		if err != nil {
			return entryRow{}, paramErr(stmtInsertEntry, 4+i, err)
		}
		*field = v
	}
	return row, nil
}

func wantArgs(kind stmtKind, args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: expected %d parameters, got %d", kind, n, len(args))
	}
	return nil
}

func paramErr(kind stmtKind, position int, err error) error {
	return fmt.Errorf("%s: parameter %d: %w", kind, position, err)
}

func argString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// argNullString accepts nil as an explicit null marker; it is stored as
// nil, never coerced to an empty string.
func argNullString(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := argString(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func argInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
