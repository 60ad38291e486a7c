package models

import "fmt"

// Entry categories as stored in the category column.
const (
	CategoryNewHires         = "newHires"
	CategoryPromotions       = "promotions"
	CategoryTransfers        = "transfers"
	CategoryBirthdays        = "birthdays"
	CategoryAnniversaries    = "anniversaries"
	CategoryEvents           = "events"
	CategoryBestEmployee     = "bestEmployee"
	CategoryBestPerformer    = "bestPerformer"
	CategoryExitingEmployees = "exitingEmployees"
)

// Entry types as stored in the entry_type column.
const (
	EntryTypeEmployee = "employee"
	EntryTypeEvent    = "event"
)

// Categories returns all recognized category keys in display order.
func Categories() []string {
	return []string{
		CategoryNewHires,
		CategoryPromotions,
		CategoryTransfers,
		CategoryBirthdays,
		CategoryAnniversaries,
		CategoryEvents,
		CategoryBestEmployee,
		CategoryBestPerformer,
		CategoryExitingEmployees,
	}
}

// ValidCategory reports whether key is a recognized category.
func ValidCategory(key string) bool {
	for _, c := range Categories() {
		if c == key {
			return true
		}
	}
	return false
}

// Comment is an internal annotation attached to an entry.
type Comment struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Employee represents one employee mention in a newsletter period.
//
// Only a subset of fields is populated for any given category; absent
// values are empty strings in the DTO (the persistence layer stores them
// as nulls).
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	Date       string `json:"date,omitempty"`
	// Achievement is set for bestEmployee / bestPerformer mentions.
	Achievement string `json:"achievement,omitempty"`
	// FromDepartment / ToDepartment are set for transfers.
	FromDepartment string    `json:"fromDepartment,omitempty"`
	ToDepartment   string    `json:"toDepartment,omitempty"`
	Comments       []Comment `json:"comments,omitempty"`
}

// Event represents a company event announced in a newsletter period.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// NewsletterData is one period's full content grouped by category.
type NewsletterData struct {
	Month            string     `json:"month"`
	Year             string     `json:"year"`
	NewHires         []Employee `json:"newHires"`
	Promotions       []Employee `json:"promotions"`
	Transfers        []Employee `json:"transfers"`
	Birthdays        []Employee `json:"birthdays"`
	Anniversaries    []Employee `json:"anniversaries"`
	Events           []Event    `json:"events"`
	BestEmployee     *Employee  `json:"bestEmployee"`
	BestPerformer    *Employee  `json:"bestPerformer"`
	ExitingEmployees []Employee `json:"exitingEmployees"`
}

// NewNewsletterData returns an empty NewsletterData for the given period
// with all category slices initialized, so JSON output carries [] rather
// than null for empty categories.
func NewNewsletterData(month, year string) *NewsletterData {
	return &NewsletterData{
		Month:            month,
		Year:             year,
		NewHires:         []Employee{},
		Promotions:       []Employee{},
		Transfers:        []Employee{},
		Birthdays:        []Employee{},
		Anniversaries:    []Employee{},
		Events:           []Event{},
		ExitingEmployees: []Employee{},
	}
}

// Validate checks that the period key fields are present.
func (d *NewsletterData) Validate() error {
	if d.Month == "" {
		return fmt.Errorf("month is required")
	}
	if d.Year == "" {
		return fmt.Errorf("year is required")
	}
	return nil
}

// PeriodSummary is a row in the recent-periods listing.
//
// UpdatedAt and CreatedAt are nil when the underlying column is null.
type PeriodSummary struct {
	Month     string  `json:"month"`
	Year      string  `json:"year"`
	UpdatedAt *string `json:"updatedAt"`
	CreatedAt *string `json:"createdAt"`
}

// FeedItem is one entry in the all-posts feed, newest first, with its
// owning period's month and year attached.
type FeedItem struct {
	ID        string `json:"id"`
	Month     string `json:"month"`
	Year      string `json:"year"`
	Category  string `json:"category"`
	EntryType string `json:"entryType"`
	Name      string `json:"name,omitempty"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"createdAt"`
}
