package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// openSQLite opens the embedded engine at the specified path.
//
// The pool is capped at one connection so BEGIN/COMMIT pairs issued by
// Transaction stay on a single session, matching the synchronous
// single-writer usage the statement grammar assumes.
func openSQLite(path string) (*sqliteConn, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// WAL for better write concurrency, foreign keys for cascade delete.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &sqliteConn{db: db}, nil
}

// sqliteConn implements [Connection] over the embedded SQLite engine.
type sqliteConn struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

func (c *sqliteConn) Prepare(query string) (Statement, error) {
	stmt, err := c.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqliteStmt{stmt: stmt}, nil
}

func (c *sqliteConn) Exec(query string) error {
	if _, err := c.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Transaction wraps fn in BEGIN IMMEDIATE / COMMIT. On error the
// transaction is rolled back and fn's error passes through unchanged.
func (c *sqliteConn) Transaction(fn func() error) func() error {
	return func() error {
		if _, err := c.db.Exec("BEGIN IMMEDIATE"); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(); err != nil {
			c.db.Exec("ROLLBACK")
			return err
		}

		if _, err := c.db.Exec("COMMIT"); err != nil {
			c.db.Exec("ROLLBACK")
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
}

// Close releases the underlying pool. Safe to call more than once.
func (c *sqliteConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// sqliteStmt adapts *sql.Stmt to the [Statement] interface.
type sqliteStmt struct {
	stmt *sql.Stmt
}

func (s *sqliteStmt) Run(args ...any) (Result, error) {
	res, err := s.stmt.Exec(args...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get inserted id: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return Result{LastInsertID: id, RowsAffected: affected}, nil
}

func (s *sqliteStmt) Get(args ...any) (Row, error) {
	rows, err := s.All(args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *sqliteStmt) All(args ...any) ([]Row, error) {
	rows, err := s.stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			// The driver hands TEXT columns back as []byte and DATETIME
			// columns back as time.Time; [Row] carries both as strings.
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			case time.Time:
				row[col] = v.UTC().Format(sqliteTimeLayout)
			default:
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}
