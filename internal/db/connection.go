package db

// Result reports the outcome of a mutating statement.
type Result struct {
	LastInsertID int64 // identity assigned by an INSERT, 0 otherwise
	RowsAffected int64 // rows touched by an UPDATE or DELETE
}

// Row is a single result row keyed by column name.
//
// Values are int64, string, or nil; nullable text columns that hold no
// value come back as nil, never as an empty string.
type Row map[string]any

// Statement is a prepared statement bound to a connection.
//
// Run executes a mutating statement, Get returns the first matching row
// (nil when nothing matches), and All returns every match.
type Statement interface {
	Run(args ...any) (Result, error)
	Get(args ...any) (Row, error)
	All(args ...any) ([]Row, error)
}

// Connection is the persistence handle consumed by the repositories layer.
//
// Exec is the fire-and-forget channel used for schema definition.
// Transaction wraps a unit of work with atomic rollback-on-error
// semantics; the returned function runs the unit eagerly when invoked.
// Close releases resources and is safe to call more than once.
type Connection interface {
	Prepare(query string) (Statement, error)
	Exec(query string) error
	Transaction(fn func() error) func() error
	Close() error
}
