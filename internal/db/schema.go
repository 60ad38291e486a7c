package db

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/schema.sql
var schemaSQL string

// schemaStatements splits the embedded schema into individual
// statements, stripping comments and blank lines.
func schemaStatements() []string {
	var out []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// removeComments strips SQL line comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// InitSchema issues the create-if-not-exists schema on conn. It is
// idempotent and safe to run on every startup. Statements go through
// Connection.Exec so both engines receive them: the embedded engine
// creates the tables and indexes, the emulator treats them as no-ops.
func InitSchema(conn Connection) error {
	for _, stmt := range schemaStatements() {
		if err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
