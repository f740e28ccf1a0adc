// package formatter renders exported list data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Supported reports whether the named format can be rendered.
func Supported(format string) bool {
	switch format {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatText:
		return true
	}
	return false
}

// Extension returns the file extension for a format, without the dot.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "json"
	}
}

// ExportToCSV converts a list and its items to CSV with columns: Kind, TMDB, Title, Year
func ExportToCSV(list services.RemoteList, items []services.RemoteItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "TMDB", "Title", "Year"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		year := ""
		if item.Year != 0 {
			year = strconv.Itoa(item.Year)
		}
		record := []string{
			string(item.Kind),
			strconv.Itoa(item.TMDB),
			item.Title,
			year,
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

// ExportToMarkdown converts a list and its items to Markdown
func ExportToMarkdown(list services.RemoteList, items []services.RemoteItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", list.Name))

	if list.UpdatedAt != "" {
		buf.WriteString(fmt.Sprintf("**Updated**: %s\n", list.UpdatedAt))
	}
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(items)))

	buf.WriteString("## Items\n\n")
	for i, item := range items {
		yearPart := ""
		if item.Year != 0 {
			yearPart = fmt.Sprintf(" (%d)", item.Year)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%s, tmdb:%d]\n", i+1, item.Title, yearPart, item.Kind, item.TMDB))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a list and its items to plain text
func ExportToText(list services.RemoteList, items []services.RemoteItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("List: %s\n", list.Name))
	if list.UpdatedAt != "" {
		buf.WriteString(fmt.Sprintf("Updated: %s\n", list.UpdatedAt))
	}
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(items)))

	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Title))
	}

	return buf.Bytes(), nil
}

// jsonItem mirrors a RemoteItem in the exported JSON document.
type jsonItem struct {
	Kind  string `json:"kind"`
	TMDB  int    `json:"tmdb"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

// jsonDocument is the JSON export shape for a single list.
type jsonDocument struct {
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	UpdatedAt string     `json:"updated_at"`
	Items     []jsonItem `json:"items"`
}

// ExportToJSON converts a list and its items to an indented JSON document
func ExportToJSON(list services.RemoteList, items []services.RemoteItem) ([]byte, error) {
	doc := jsonDocument{Slug: list.Slug, Name: list.Name, UpdatedAt: list.UpdatedAt}
	for _, item := range items {
		doc.Items = append(doc.Items, jsonItem{
			Kind:  string(item.Kind),
			TMDB:  item.TMDB,
			Title: item.Title,
			Year:  item.Year,
		})
	}
	return shared.MarshalJSON(doc, true)
}

// Render produces the export document for a list in the given format.
//
// An unknown format falls back to JSON.
func Render(format string, list services.RemoteList, items []services.RemoteItem) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(list, items)
	case FormatMarkdown:
		return ExportToMarkdown(list, items)
	case FormatText:
		return ExportToText(list, items)
	default:
		return ExportToJSON(list, items)
	}
}
