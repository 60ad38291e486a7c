package db

import "strings"

// stmtKind is the closed set of statement shapes the emulator recognizes.
//
// Classification happens once, at Prepare time; execution switches
// exhaustively on the kind. Adding a shape means adding a constant here,
// a branch in classify, and the corresponding case in the memoryStmt
// methods.
type stmtKind int

const (
	// stmtUnknown covers any statement outside the recognized grammar.
	// It executes as a no-op with an empty result rather than failing,
	// so unanticipated administrative statements pass through.
	stmtUnknown stmtKind = iota
	// stmtSchema covers DDL and pragma statements; recognized no-ops.
	stmtSchema
	stmtInsertPeriod
	stmtSelectPeriodByKey
	stmtSelectRecentPeriods
	stmtTouchPeriod
	stmtSelectEntriesByPeriod
	stmtInsertEntry
	stmtDeleteEntriesByPeriod
	stmtSelectCommentsByEntryIDs
	stmtInsertComment
)

func (k stmtKind) String() string {
	switch k {
	case stmtSchema:
		return "schema"
	case stmtInsertPeriod:
		return "insert-period"
	case stmtSelectPeriodByKey:
		return "select-period-by-key"
	case stmtSelectRecentPeriods:
		return "select-recent-periods"
	case stmtTouchPeriod:
		return "touch-period"
	case stmtSelectEntriesByPeriod:
		return "select-entries-by-period"
	case stmtInsertEntry:
		return "insert-entry"
	case stmtDeleteEntriesByPeriod:
		return "delete-entries-by-period"
	case stmtSelectCommentsByEntryIDs:
		return "select-comments-by-entry-ids"
	case stmtInsertComment:
		return "insert-comment"
	default:
		return "unknown"
	}
}

// mutates reports whether statements of this kind change table state.
func (k stmtKind) mutates() bool {
	switch k {
	case stmtInsertPeriod, stmtTouchPeriod, stmtInsertEntry, stmtDeleteEntriesByPeriod, stmtInsertComment:
		return true
	default:
		return false
	}
}

// classify assigns a statement one of the recognized kinds by structural
// inspection of its text: keyword, table name, and clause shape. It is
// not a SQL parser; the accepted grammar is exactly the shapes above.
//
// More specific shapes are checked before the generic ones so the most
// specific match wins (a period lookup by month/year is tested before
// the recent-periods listing, which also selects from newsletters).
func classify(query string) stmtKind {
	q := normalizeStatement(query)

	switch {
	case hasAnyPrefix(q,
		"create table", "create index", "create unique index",
		"drop table", "drop index", "alter table", "pragma"):
		return stmtSchema
	case strings.HasPrefix(q, "insert into newsletters"):
		return stmtInsertPeriod
	case strings.HasPrefix(q, "insert into newsletter_entries"):
		return stmtInsertEntry
	case strings.HasPrefix(q, "insert into entry_comments"):
		return stmtInsertComment
	case strings.HasPrefix(q, "update newsletters") &&
		strings.Contains(q, "set updated_at") && strings.Contains(q, "where id"):
		return stmtTouchPeriod
	case strings.HasPrefix(q, "delete from newsletter_entries") &&
		strings.Contains(q, "where newsletter_id"):
		return stmtDeleteEntriesByPeriod
	case strings.HasPrefix(q, "select") && strings.Contains(q, "from newsletters") &&
		strings.Contains(q, "where month") && strings.Contains(q, "year"):
		return stmtSelectPeriodByKey
	case strings.HasPrefix(q, "select") && strings.Contains(q, "from newsletters") &&
		strings.Contains(q, "order by coalesce(updated_at, created_at)"):
		return stmtSelectRecentPeriods
	case strings.HasPrefix(q, "select") && strings.Contains(q, "from newsletter_entries") &&
		strings.Contains(q, "where newsletter_id"):
		return stmtSelectEntriesByPeriod
	case strings.HasPrefix(q, "select") && strings.Contains(q, "from entry_comments") &&
		strings.Contains(q, "where entry_id in"):
		return stmtSelectCommentsByEntryIDs
	default:
		return stmtUnknown
	}
}

// normalizeStatement lower-cases a statement and collapses runs of
// whitespace so clause checks see a single canonical spelling.
func normalizeStatement(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
