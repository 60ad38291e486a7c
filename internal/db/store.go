package db

import "sort"

// periodRow is one newsletter period (a month/year issue).
type periodRow struct {
	ID        int64  `json:"id"`
	Month     string `json:"month"`
	Year      string `json:"year"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// entryRow is one piece of newsletter content belonging to a period.
//
// Optional descriptive columns are pointers so an absent value stays an
// explicit null; coercion to empty strings is a presentation concern.
type entryRow struct {
	ID             int64   `json:"id"`
	NewsletterID   int64   `json:"newsletter_id"`
	Category       string  `json:"category"`
	EntryType      string  `json:"entry_type"`
	Name           *string `json:"name"`
	Position       *string `json:"position"`
	Department     *string `json:"department"`
	FromDepartment *string `json:"from_department"`
	ToDepartment   *string `json:"to_department"`
	Date           *string `json:"date"`
	Achievement    *string `json:"achievement"`
	PhotoURL       *string `json:"photo_url"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	EntryOrder     int64   `json:"entry_order"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// commentRow is one internal annotation attached to an entry.
type commentRow struct {
	ID        int64  `json:"id"`
	EntryID   int64  `json:"entry_id"`
	User      string `json:"user"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// memStore holds the emulator's relational state: the three collections
// and their independent auto-increment counters. Counters are seeded at
// 1 and never reused, even after deletion. The store exclusively owns
// this state; all mutation goes through the statement interface.
type memStore struct {
	periods  []periodRow
	entries  []entryRow
	comments []commentRow

	nextPeriodID  int64
	nextEntryID   int64
	nextCommentID int64
}

func newMemStore() *memStore {
	return &memStore{
		periods:       []periodRow{},
		entries:       []entryRow{},
		comments:      []commentRow{},
		nextPeriodID:  1,
		nextEntryID:   1,
		nextCommentID: 1,
	}
}

// clone takes a deep copy of the whole store for transaction rollback.
// Pointer-typed columns are duplicated so the copy shares no memory with
// the live state.
func (s *memStore) clone() *memStore {
	c := &memStore{
		periods:       make([]periodRow, len(s.periods)),
		entries:       make([]entryRow, len(s.entries)),
		comments:      make([]commentRow, len(s.comments)),
		nextPeriodID:  s.nextPeriodID,
		nextEntryID:   s.nextEntryID,
		nextCommentID: s.nextCommentID,
	}
	copy(c.periods, s.periods)
	copy(c.comments, s.comments)
	for i, e := range s.entries {
		e.Name = cloneString(e.Name)
		e.Position = cloneString(e.Position)
		e.Department = cloneString(e.Department)
		e.FromDepartment = cloneString(e.FromDepartment)
		e.ToDepartment = cloneString(e.ToDepartment)
		e.Date = cloneString(e.Date)
		e.Achievement = cloneString(e.Achievement)
		e.PhotoURL = cloneString(e.PhotoURL)
		e.Title = cloneString(e.Title)
		e.Description = cloneString(e.Description)
		c.entries[i] = e
	}
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// insertPeriod appends a new period stamped with now and returns its identity.
//
// Uniqueness of (month, year) is the caller's responsibility via
// get-or-create logic; the store does not reject duplicates.
func (s *memStore) insertPeriod(month, year, now string) int64 {
	id := s.nextPeriodID
	s.nextPeriodID++
	s.periods = append(s.periods, periodRow{
		ID:        id,
		Month:     month,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return id
}

// findPeriod returns the first period matching the exact (month, year)
// pair, or nil. First inserted wins if duplicates exist.
func (s *memStore) findPeriod(month, year string) *periodRow {
	for i := range s.periods {
		if s.periods[i].Month == month && s.periods[i].Year == year {
			return &s.periods[i]
		}
	}
	return nil
}

// touchPeriod bumps updated_at on the period with the given identity and
// returns the affected-row count (0 or 1).
func (s *memStore) touchPeriod(id int64, now string) int64 {
	for i := range s.periods {
		if s.periods[i].ID == id {
			s.periods[i].UpdatedAt = now
			return 1
		}
	}
	return 0
}

// recentPeriods returns periods ordered by COALESCE(updated_at,
// created_at) descending, windowed by limit and offset.
func (s *memStore) recentPeriods(limit, offset int64) []periodRow {
	ordered := make([]periodRow, len(s.periods))
	copy(ordered, s.periods)
	sort.SliceStable(ordered, func(i, j int) bool {
		return coalesce(ordered[i].UpdatedAt, ordered[i].CreatedAt) >
			coalesce(ordered[j].UpdatedAt, ordered[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(ordered)) {
		return []periodRow{}
	}
	ordered = ordered[offset:]
	if limit >= 0 && limit < int64(len(ordered)) {
		ordered = ordered[:limit]
	}
	return ordered
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// insertEntry appends the entry and returns its identity. Timestamps and
// identity on the passed row are overwritten by the store.
func (s *memStore) insertEntry(e entryRow, now string) int64 {
	e.ID = s.nextEntryID
	s.nextEntryID++
	e.CreatedAt = now
	e.UpdatedAt = now
	s.entries = append(s.entries, e)
	return e.ID
}

// entriesByPeriod returns every entry owned by the period, ordered by
// category (lexical), then entry_order, then identity. The ordering is
// load-bearing: it is the display sequence of the published newsletter.
func (s *memStore) entriesByPeriod(periodID int64) []entryRow {
	var out []entryRow
	for _, e := range s.entries {
		if e.NewsletterID == periodID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].EntryOrder != out[j].EntryOrder {
			return out[i].EntryOrder < out[j].EntryOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// deleteEntriesByPeriod removes every entry owned by the period and
// cascades to comments on the removed entries. Returns the number of
// entries removed.
func (s *memStore) deleteEntriesByPeriod(periodID int64) int64 {
	removed := make(map[int64]bool)
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.NewsletterID == periodID {
			removed[e.ID] = true
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return 0
	}
	s.entries = kept

	keptComments := s.comments[:0:0]
	for _, c := range s.comments {
		if !removed[c.EntryID] {
			keptComments = append(keptComments, c)
		}
	}
	s.comments = keptComments

	return int64(len(removed))
}

// entryExists reports whether an entry with the given identity is present.
func (s *memStore) entryExists(id int64) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// insertComment appends a comment stamped with now and returns its identity.
func (s *memStore) insertComment(entryID int64, user, content, now string) int64 {
	id := s.nextCommentID
	s.nextCommentID++
	s.comments = append(s.comments, commentRow{
		ID:        id,
		EntryID:   entryID,
		User:      user,
		Content:   content,
		CreatedAt: now,
	})
	return id
}

// commentsByEntries returns comments whose entry_id is in ids, ordered
// by identity ascending (creation order).
func (s *memStore) commentsByEntries(ids []int64) []commentRow {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []commentRow
	for _, c := range s.comments {
		if want[c.EntryID] {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Row conversions. Keys mirror the column names from the schema.

func (p periodRow) toRow() Row {
	return Row{
		"id":         p.ID,
		"month":      p.Month,
		"year":       p.Year,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

// toSummaryRow matches the column list of the recent-periods statement.
func (p periodRow) toSummaryRow() Row {
	return Row{
		"month":      p.Month,
		"year":       p.Year,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func (e entryRow) toRow() Row {
	return Row{
		"id":              e.ID,
		"newsletter_id":   e.NewsletterID,
		"category":        e.Category,
		"entry_type":      e.EntryType,
		"name":            nullable(e.Name),
		"position":        nullable(e.Position),
		"department":      nullable(e.Department),
		"from_department": nullable(e.FromDepartment),
		"to_department":   nullable(e.ToDepartment),
		"date":            nullable(e.Date),
		"achievement":     nullable(e.Achievement),
		"photo_url":       nullable(e.PhotoURL),
		"title":           nullable(e.Title),
		"description":     nullable(e.Description),
		"entry_order":     e.EntryOrder,
		"created_at":      e.CreatedAt,
		"updated_at":      e.UpdatedAt,
	}
}

func (c commentRow) toRow() Row {
	return Row{
		"id":         c.ID,
		"entry_id":   c.EntryID,
		"user":       c.User,
		"content":    c.Content,
		"created_at": c.CreatedAt,
	}
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
