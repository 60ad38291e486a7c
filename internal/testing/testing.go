// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/newsroom-tools/bulletin/internal/db"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FailingConn is a [db.Connection] test double whose statements fail.
type FailingConn struct {
	// PrepareErr makes Prepare itself fail when set; otherwise prepared
	// statements fail on use with RunErr.
	PrepareErr error
	RunErr     error
}

func (c *FailingConn) Prepare(query string) (db.Statement, error) {
	if c.PrepareErr != nil {
		return nil, c.PrepareErr
	}
	err := c.RunErr
	if err == nil {
		err = errors.New("statement failed")
	}
	return &failingStmt{err: err}, nil
}

func (c *FailingConn) Exec(query string) error { return nil }

func (c *FailingConn) Transaction(fn func() error) func() error {
	return fn
}

func (c *FailingConn) Close() error { return nil }

type failingStmt struct {
	err error
}

func (s *failingStmt) Run(args ...any) (db.Result, error) { return db.Result{}, s.err }
func (s *failingStmt) Get(args ...any) (db.Row, error)    { return nil, s.err }
func (s *failingStmt) All(args ...any) ([]db.Row, error)  { return nil, s.err }

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
