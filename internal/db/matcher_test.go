package db

import "testing"

func TestClassify(t *testing.T) {
	tc := []struct {
		name  string
		query string
		want  stmtKind
	}{
		{
			name:  "insert period",
			query: "INSERT INTO newsletters (month, year) VALUES (?, ?)",
			want:  stmtInsertPeriod,
		},
		{
			name:  "select period by key",
			query: "SELECT * FROM newsletters WHERE month = ? AND year = ?",
			want:  stmtSelectPeriodByKey,
		},
		{
			name: "select recent periods",
			query: `SELECT month, year, updated_at, created_at
				FROM newsletters
				ORDER BY COALESCE(updated_at, created_at) DESC
				LIMIT ? OFFSET ?`,
			want: stmtSelectRecentPeriods,
		},
		{
			name:  "touch period",
			query: "UPDATE newsletters SET updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			want:  stmtTouchPeriod,
		},
		{
			name:  "select entries by period",
			query: "SELECT * FROM newsletter_entries WHERE newsletter_id = ? ORDER BY category, entry_order, id",
			want:  stmtSelectEntriesByPeriod,
		},
		{
			name: "insert entry",
			query: `INSERT INTO newsletter_entries (
				newsletter_id, category, entry_type, name, position, department,
				from_department, to_department, date, achievement, photo_url, title, description, entry_order
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			want: stmtInsertEntry,
		},
		{
			name:  "delete entries by period",
			query: "DELETE FROM newsletter_entries WHERE newsletter_id = ?",
			want:  stmtDeleteEntriesByPeriod,
		},
		{
			name:  "select comments by entry ids",
			query: "SELECT * FROM entry_comments WHERE entry_id IN (?,?,?) ORDER BY created_at",
			want:  stmtSelectCommentsByEntryIDs,
		},
		{
			name:  "insert comment",
			query: "INSERT INTO entry_comments (entry_id, user, content) VALUES (?, ?, ?)",
			want:  stmtInsertComment,
		},
		{
			name:  "create table",
			query: "CREATE TABLE IF NOT EXISTS newsletters (id INTEGER PRIMARY KEY AUTOINCREMENT)",
			want:  stmtSchema,
		},
		{
			name:  "create index",
			query: "CREATE INDEX IF NOT EXISTS idx_newsletter_entries_newsletter_id ON newsletter_entries(newsletter_id)",
			want:  stmtSchema,
		},
		{
			name:  "pragma",
			query: "PRAGMA journal_mode = WAL",
			want:  stmtSchema,
		},
		{
			name:  "unrecognized select",
			query: "SELECT COUNT(*) FROM newsletters",
			want:  stmtUnknown,
		},
		{
			name:  "unrecognized join",
			query: "SELECT e.*, n.month FROM newsletter_entries e JOIN newsletters n ON e.newsletter_id = n.id",
			want:  stmtUnknown,
		},
		{
			name:  "empty statement",
			query: "",
			want:  stmtUnknown,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.query); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsWhitespaceInsensitive(t *testing.T) {
	compact := "SELECT * FROM newsletters WHERE month = ? AND year = ?"
	spread := "select *\n\tFROM   newsletters\n\tWHERE month = ?\n\t  AND year  = ?"

	if classify(compact) != classify(spread) {
		t.Error("classification should not depend on whitespace or case")
	}
}

func TestStmtKindMutates(t *testing.T) {
	mutating := []stmtKind{stmtInsertPeriod, stmtTouchPeriod, stmtInsertEntry, stmtDeleteEntriesByPeriod, stmtInsertComment}
	for _, k := range mutating {
		if !k.mutates() {
			t.Errorf("%v should be mutating", k)
		}
	}

	readOnly := []stmtKind{stmtUnknown, stmtSchema, stmtSelectPeriodByKey, stmtSelectRecentPeriods, stmtSelectEntriesByPeriod, stmtSelectCommentsByEntryIDs}
	for _, k := range readOnly {
		if k.mutates() {
			t.Errorf("%v should not be mutating", k)
		}
	}
}
