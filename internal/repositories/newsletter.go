package repositories

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/newsroom-tools/bulletin/internal/db"
	"github.com/newsroom-tools/bulletin/internal/models"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// The literal statements the persistence layer recognizes. The emulator
// matches these by shape, so edits here must stay within its grammar.
const (
	queryInsertPeriod  = "INSERT INTO newsletters (month, year) VALUES (?, ?)"
	querySelectPeriod  = "SELECT * FROM newsletters WHERE month = ? AND year = ?"
	queryTouchPeriod   = "UPDATE newsletters SET updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	querySelectEntries = "SELECT * FROM newsletter_entries WHERE newsletter_id = ? ORDER BY category, entry_order, id"
	queryInsertEntry   = `INSERT INTO newsletter_entries (
		newsletter_id, category, entry_type, name, position, department,
		from_department, to_department, date, achievement, photo_url, title, description, entry_order
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	queryDeleteEntries = "DELETE FROM newsletter_entries WHERE newsletter_id = ?"
	queryInsertComment = "INSERT INTO entry_comments (entry_id, user, content) VALUES (?, ?, ?)"
	queryRecentPeriods = `SELECT month, year, updated_at, created_at
		FROM newsletters
		ORDER BY COALESCE(updated_at, created_at) DESC
		LIMIT ? OFFSET ?`
)

// NewsletterRepository persists newsletter periods, entries, and
// comments through a [db.Connection].
type NewsletterRepository struct {
	conn db.Connection
}

// NewNewsletterRepository creates a new [NewsletterRepository] with the given connection
func NewNewsletterRepository(conn db.Connection) *NewsletterRepository {
	return &NewsletterRepository{conn: conn}
}

// GetOrCreatePeriodID returns the identity of the period for (month,
// year), creating it on first reference. The second return reports
// whether a new period was created.
func (r *NewsletterRepository) GetOrCreatePeriodID(month, year string) (int64, bool, error) {
	stmt, err := r.conn.Prepare(querySelectPeriod)
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare period lookup: %w", err)
	}

	row, err := stmt.Get(month, year)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up period: %w", err)
	}
	if row != nil {
		return rowInt64(row, "id"), false, nil
	}

	insert, err := r.conn.Prepare(queryInsertPeriod)
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare period insert: %w", err)
	}
	res, err := insert.Run(month, year)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert period: %w", err)
	}

	return res.LastInsertID, true, nil
}

// Load fetches one period's full content, creating the period on first
// reference. Null columns are coerced to empty strings here; the
// persistence layer below keeps them as explicit nulls.
func (r *NewsletterRepository) Load(month, year string) (*models.NewsletterData, error) {
	periodID, _, err := r.GetOrCreatePeriodID(month, year)
	if err != nil {
		return nil, err
	}

	stmt, err := r.conn.Prepare(querySelectEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare entries query: %w", err)
	}
	entries, err := stmt.All(periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	commentsByEntry, err := r.commentsForEntries(entries)
	if err != nil {
		return nil, err
	}

	data := models.NewNewsletterData(month, year)
	for _, entry := range entries {
		id := rowInt64(entry, "id")
		category := rowString(entry, "category")

		if category == models.CategoryEvents {
			data.Events = append(data.Events, models.Event{
				ID:          strconv.FormatInt(id, 10),
				Title:       rowString(entry, "title"),
				Date:        rowString(entry, "date"),
				Description: rowString(entry, "description"),
			})
			continue
		}

		emp := models.Employee{
			ID:             strconv.FormatInt(id, 10),
			Name:           rowString(entry, "name"),
			Position:       rowString(entry, "position"),
			Department:     rowString(entry, "department"),
			PhotoURL:       rowString(entry, "photo_url"),
			Date:           rowString(entry, "date"),
			Achievement:    rowString(entry, "achievement"),
			FromDepartment: rowString(entry, "from_department"),
			ToDepartment:   rowString(entry, "to_department"),
			Comments:       commentsByEntry[id],
		}

		switch category {
		case models.CategoryNewHires:
			data.NewHires = append(data.NewHires, emp)
		case models.CategoryPromotions:
			data.Promotions = append(data.Promotions, emp)
		case models.CategoryTransfers:
			data.Transfers = append(data.Transfers, emp)
		case models.CategoryBirthdays:
			data.Birthdays = append(data.Birthdays, emp)
		case models.CategoryAnniversaries:
			data.Anniversaries = append(data.Anniversaries, emp)
		case models.CategoryExitingEmployees:
			data.ExitingEmployees = append(data.ExitingEmployees, emp)
		case models.CategoryBestEmployee:
			e := emp
			data.BestEmployee = &e
		case models.CategoryBestPerformer:
			e := emp
			data.BestPerformer = &e
		}
	}

	return data, nil
}

// commentsForEntries fetches comments for the given entry rows in one
// statement; the IN list's parameter count varies with the entry count.
func (r *NewsletterRepository) commentsForEntries(entries []db.Row) (map[int64][]models.Comment, error) {
	grouped := make(map[int64][]models.Comment)
	if len(entries) == 0 {
		return grouped, nil
	}

	ids := make([]any, len(entries))
	for i, e := range entries {
		ids[i] = rowInt64(e, "id")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT * FROM entry_comments WHERE entry_id IN (%s) ORDER BY created_at", placeholders)

	stmt, err := r.conn.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare comments query: %w", err)
	}
	rows, err := stmt.All(ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	for _, row := range rows {
		entryID := rowInt64(row, "entry_id")
		grouped[entryID] = append(grouped[entryID], models.Comment{
			ID:      strconv.FormatInt(rowInt64(row, "id"), 10),
			User:    rowString(row, "user"),
			Content: rowString(row, "content"),
			Date:    rowString(row, "created_at"),
		})
	}

	return grouped, nil
}

// Save replaces one period's entire content atomically: the period is
// created or touched, its existing entries are deleted (comments
// cascade), and the full current set is reinserted with a running
// entry_order. A failure anywhere rolls the whole replace back.
func (r *NewsletterRepository) Save(month, year string, data *models.NewsletterData) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx := r.conn.Transaction(func() error {
		periodID, created, err := r.GetOrCreatePeriodID(month, year)
		if err != nil {
			return err
		}
		if !created {
			touch, err := r.conn.Prepare(queryTouchPeriod)
			if err != nil {
				return fmt.Errorf("failed to prepare period touch: %w", err)
			}
			if _, err := touch.Run(periodID); err != nil {
				return fmt.Errorf("failed to touch period: %w", err)
			}
		}

		del, err := r.conn.Prepare(queryDeleteEntries)
		if err != nil {
			return fmt.Errorf("failed to prepare entry delete: %w", err)
		}
		if _, err := del.Run(periodID); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}

		insert, err := r.conn.Prepare(queryInsertEntry)
		if err != nil {
			return fmt.Errorf("failed to prepare entry insert: %w", err)
		}

		order := int64(0)
		insertEmployees := func(category string, employees []models.Employee) error {
			for _, emp := range employees {
				if _, err := insert.Run(
					periodID, category, models.EntryTypeEmployee,
					emp.Name, emp.Position, emp.Department,
					nullIfEmpty(emp.FromDepartment), nullIfEmpty(emp.ToDepartment),
					nullIfEmpty(emp.Date), nullIfEmpty(emp.Achievement),
					nullIfEmpty(emp.PhotoURL), nil, nil, order,
				); err != nil {
					return fmt.Errorf("failed to insert %s entry: %w", category, err)
				}
				order++
			}
			return nil
		}
		insertSingle := func(category string, emp *models.Employee) error {
			if emp == nil {
				return nil
			}
			return insertEmployees(category, []models.Employee{*emp})
		}

		if err := insertEmployees(models.CategoryNewHires, data.NewHires); err != nil {
			return err
		}
		if err := insertEmployees(models.CategoryPromotions, data.Promotions); err != nil {
			return err
		}
		if err := insertEmployees(models.CategoryTransfers, data.Transfers); err != nil {
			return err
		}
		if err := insertEmployees(models.CategoryBirthdays, data.Birthdays); err != nil {
			return err
		}
		if err := insertEmployees(models.CategoryAnniversaries, data.Anniversaries); err != nil {
			return err
		}
		if err := insertEmployees(models.CategoryExitingEmployees, data.ExitingEmployees); err != nil {
			return err
		}
		if err := insertSingle(models.CategoryBestEmployee, data.BestEmployee); err != nil {
			return err
		}
		if err := insertSingle(models.CategoryBestPerformer, data.BestPerformer); err != nil {
			return err
		}

		for _, event := range data.Events {
			if _, err := insert.Run(
				periodID, models.CategoryEvents, models.EntryTypeEvent,
				nil, nil, nil, nil, nil,
				nullIfEmpty(event.Date), nil, nil,
				event.Title, event.Description, order,
			); err != nil {
				return fmt.Errorf("failed to insert event entry: %w", err)
			}
			order++
		}

		return nil
	})

	return tx()
}

// AddComment attaches an internal annotation to an entry.
func (r *NewsletterRepository) AddComment(entryID int64, user, content string) (models.Comment, error) {
	stmt, err := r.conn.Prepare(queryInsertComment)
	if err != nil {
		return models.Comment{}, fmt.Errorf("failed to prepare comment insert: %w", err)
	}

	res, err := stmt.Run(entryID, user, content)
	if err != nil {
		return models.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	return models.Comment{
		ID:      strconv.FormatInt(res.LastInsertID, 10),
		User:    user,
		Content: content,
		Date:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// RecentPeriods lists periods by most recent activity. A negative limit
// means no limit.
func (r *NewsletterRepository) RecentPeriods(limit, offset int64) ([]models.PeriodSummary, error) {
	stmt, err := r.conn.Prepare(queryRecentPeriods)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare periods query: %w", err)
	}

	rows, err := stmt.All(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}

	periods := make([]models.PeriodSummary, len(rows))
	for i, row := range rows {
		periods[i] = models.PeriodSummary{
			Month:     rowString(row, "month"),
			Year:      rowString(row, "year"),
			UpdatedAt: rowNullString(row, "updated_at"),
			CreatedAt: rowNullString(row, "created_at"),
		}
	}

	return periods, nil
}

// Feed returns every entry across all periods, newest first, with the
// owning period's month and year attached. It composes recognized
// statements (periods listing, period lookup, entries by period) so the
// same code path serves both engines.
func (r *NewsletterRepository) Feed() ([]models.FeedItem, error) {
	periods, err := r.RecentPeriods(-1, 0)
	if err != nil {
		return nil, err
	}

	lookup, err := r.conn.Prepare(querySelectPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare period lookup: %w", err)
	}
	entriesStmt, err := r.conn.Prepare(querySelectEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare entries query: %w", err)
	}

	type feedRow struct {
		item      models.FeedItem
		id        int64
		createdAt string
	}
	var all []feedRow

	for _, p := range periods {
		row, err := lookup.Get(p.Month, p.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to look up period: %w", err)
		}
		if row == nil {
			continue
		}

		entries, err := entriesStmt.All(rowInt64(row, "id"))
		if err != nil {
			return nil, fmt.Errorf("failed to query entries: %w", err)
		}
		for _, entry := range entries {
			id := rowInt64(entry, "id")
			createdAt := rowString(entry, "created_at")
			all = append(all, feedRow{
				id:        id,
				createdAt: createdAt,
				item: models.FeedItem{
					ID:        strconv.FormatInt(id, 10),
					Month:     p.Month,
					Year:      p.Year,
					Category:  rowString(entry, "category"),
					EntryType: rowString(entry, "entry_type"),
					Name:      rowString(entry, "name"),
					Title:     rowString(entry, "title"),
					CreatedAt: createdAt,
				},
			})
		}
	}

	// Newest first; identity breaks timestamp ties deterministically.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].createdAt != all[j].createdAt {
			return all[i].createdAt > all[j].createdAt
		}
		return all[i].id > all[j].id
	})

	items := make([]models.FeedItem, len(all))
	for i, fr := range all {
		items[i] = fr.item
	}
	return items, nil
}

// nullIfEmpty maps empty strings to explicit nulls at the statement
// boundary; the reverse coercion happens in Load.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rowInt64(row db.Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func rowString(row db.Row, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowNullString(row db.Row, key string) *string {
	if v, ok := row[key].(string); ok {
		return &v
	}
	return nil
}
