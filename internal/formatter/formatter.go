// package formatter provides functions to export newsletter data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/newsroom-tools/bulletin/internal/models"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// categoryTitles maps category keys to their display headings.
var categoryTitles = map[string]string{
	models.CategoryNewHires:         "New Hires",
	models.CategoryPromotions:       "Promotions",
	models.CategoryTransfers:        "Transfers",
	models.CategoryBirthdays:        "Birthdays",
	models.CategoryAnniversaries:    "Anniversaries",
	models.CategoryEvents:           "Events",
	models.CategoryBestEmployee:     "Best Employee",
	models.CategoryBestPerformer:    "Best Performer",
	models.CategoryExitingEmployees: "Exiting Employees",
}

// CategoryTitle returns the display heading for a category key.
func CategoryTitle(key string) string {
	if title, ok := categoryTitles[key]; ok {
		return title
	}
	return key
}

type categoryGroup struct {
	key       string
	employees []models.Employee
}

// employeesByCategory pairs each category key with its entries, in display order.
func employeesByCategory(data *models.NewsletterData) []categoryGroup {
	single := func(e *models.Employee) []models.Employee {
		if e == nil {
			return nil
		}
		return []models.Employee{*e}
	}
	return []categoryGroup{
		{models.CategoryNewHires, data.NewHires},
		{models.CategoryPromotions, data.Promotions},
		{models.CategoryTransfers, data.Transfers},
		{models.CategoryBirthdays, data.Birthdays},
		{models.CategoryAnniversaries, data.Anniversaries},
		{models.CategoryBestEmployee, single(data.BestEmployee)},
		{models.CategoryBestPerformer, single(data.BestPerformer)},
		{models.CategoryExitingEmployees, data.ExitingEmployees},
	}
}

// employeeDetails summarizes the category-specific fields in one string.
func employeeDetails(emp models.Employee) string {
	parts := []string{}
	if emp.FromDepartment != "" || emp.ToDepartment != "" {
		parts = append(parts, fmt.Sprintf("from %s to %s", emp.FromDepartment, emp.ToDepartment))
	}
	if emp.Achievement != "" {
		parts = append(parts, emp.Achievement)
	}
	if emp.Date != "" {
		parts = append(parts, emp.Date)
	}
	return strings.Join(parts, "; ")
}

// ExportToCSV converts a newsletter period to CSV format with columns: Category, Type, Name, Position, Department, Date, Details
func ExportToCSV(data *models.NewsletterData) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Category", "Type", "Name", "Position", "Department", "Date", "Details"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range employeesByCategory(data) {
		for _, emp := range group.employees {
			record := []string{
				group.key,
				models.EntryTypeEmployee,
				emp.Name,
				emp.Position,
				emp.Department,
				emp.Date,
				employeeDetails(emp),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	for _, event := range data.Events {
		record := []string{
			models.CategoryEvents,
			models.EntryTypeEvent,
			event.Title,
			"",
			"",
			event.Date,
			event.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a newsletter period to Markdown format with one section per non-empty category
func ExportToMarkdown(data *models.NewsletterData) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s %s Newsletter\n\n", data.Month, data.Year))

	for _, group := range employeesByCategory(data) {
		if len(group.employees) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", CategoryTitle(group.key)))
		for i, emp := range group.employees {
			line := fmt.Sprintf("%d. **%s**", i+1, emp.Name)
			if emp.Position != "" {
				line += fmt.Sprintf(" - %s", emp.Position)
			}
			if emp.Department != "" {
				line += fmt.Sprintf(" (%s)", emp.Department)
			}
			if details := employeeDetails(emp); details != "" {
				line += fmt.Sprintf(": %s", details)
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	if len(data.Events) > 0 {
		buf.WriteString(fmt.Sprintf("## %s\n\n", CategoryTitle(models.CategoryEvents)))
		for i, event := range data.Events {
			line := fmt.Sprintf("%d. **%s**", i+1, event.Title)
			if event.Date != "" {
				line += fmt.Sprintf(" [%s]", event.Date)
			}
			if event.Description != "" {
				line += fmt.Sprintf(": %s", event.Description)
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a newsletter period to plain text format
func ExportToText(data *models.NewsletterData) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Newsletter: %s %s\n\n", data.Month, data.Year))

	for _, group := range employeesByCategory(data) {
		if len(group.employees) == 0 {
			continue
		}

		buf.WriteString(CategoryTitle(group.key) + "\n")
		for i, emp := range group.employees {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, emp.Name, emp.Position))
		}
		buf.WriteString("\n")
	}

	if len(data.Events) > 0 {
		buf.WriteString(CategoryTitle(models.CategoryEvents) + "\n")
		for i, event := range data.Events {
			buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, event.Title, event.Date))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToJSON generates an indented JSON representation of a newsletter period
func ToJSON(data *models.NewsletterData) ([]byte, error) {
	return shared.MarshalJSON(data, true)
}

// WriteExport exports a newsletter period to the given format and file path.
//
// Supported formats: json, csv, markdown, txt.
// Defaults to newsletter_{month}_{year}.{ext} as the filename.
func WriteExport(data *models.NewsletterData, format, filepath string) (string, error) {
	var (
		out []byte
		ext string
		err error
	)

	switch format {
	case "json", "":
		out, err = ToJSON(data)
		ext = "json"
	case "csv":
		out, err = ExportToCSV(data)
		ext = "csv"
	case "markdown", "md":
		out, err = ExportToMarkdown(data)
		ext = "md"
	case "txt", "text":
		out, err = ExportToText(data)
		ext = "txt"
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if filepath == "" {
		filepath = fmt.Sprintf("newsletter_%s_%s.%s",
			strings.ToLower(data.Month), data.Year, ext)
	}

	if err := os.WriteFile(filepath, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
