package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/desertthunder/trx/internal/services"
)

func fixtureList() (services.RemoteList, []services.RemoteItem) {
	list := services.RemoteList{
		Slug:      "action-classics",
		Name:      "Action Classics",
		UpdatedAt: "2024-05-01T10:00:00Z",
		ItemCount: 2,
	}
	items := []services.RemoteItem{
		{Kind: services.KindMovie, TMDB: 603, Title: "The Matrix", Year: 1999},
		{Kind: services.KindShow, TMDB: 1396, Title: "Breaking Bad"},
	}
	return list, items
}

func TestExportToCSV(t *testing.T) {
	list, items := fixtureList()

	data, err := ExportToCSV(list, items)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Kind" || records[0][1] != "TMDB" {
		t.Errorf("unexpected header row: %v", records[0])
	}
	if records[1][2] != "The Matrix" || records[1][3] != "1999" {
		t.Errorf("unexpected first record: %v", records[1])
	}
	if records[2][3] != "" {
		t.Errorf("expected empty year for unknown year, got %q", records[2][3])
	}
}

func TestExportToMarkdown(t *testing.T) {
	list, items := fixtureList()

	data, err := ExportToMarkdown(list, items)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "# Action Classics\n") {
		t.Errorf("expected title heading, got %q", out)
	}
	if !strings.Contains(out, "**Updated**: 2024-05-01T10:00:00Z") {
		t.Errorf("expected updated marker, got %q", out)
	}
	if !strings.Contains(out, "1. The Matrix (1999) [movie, tmdb:603]") {
		t.Errorf("expected item line, got %q", out)
	}
	if !strings.Contains(out, "2. Breaking Bad [show, tmdb:1396]") {
		t.Errorf("expected year omitted when unknown, got %q", out)
	}
}

func TestExportToText(t *testing.T) {
	list, items := fixtureList()

	data, err := ExportToText(list, items)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "List: Action Classics") {
		t.Errorf("expected list name, got %q", out)
	}
	if !strings.Contains(out, "Items: 2") {
		t.Errorf("expected item count, got %q", out)
	}
	if !strings.Contains(out, "1. The Matrix") {
		t.Errorf("expected numbered item, got %q", out)
	}
}

func TestExportToJSON(t *testing.T) {
	list, items := fixtureList()

	data, err := ExportToJSON(list, items)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var doc struct {
		Slug      string `json:"slug"`
		UpdatedAt string `json:"updated_at"`
		Items     []struct {
			Kind string `json:"kind"`
			TMDB int    `json:"tmdb"`
			Year int    `json:"year"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Slug != "action-classics" || doc.UpdatedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("unexpected document metadata: %+v", doc)
	}
	if len(doc.Items) != 2 || doc.Items[0].TMDB != 603 {
		t.Errorf("unexpected items: %+v", doc.Items)
	}
	if doc.Items[1].Year != 0 {
		t.Errorf("expected zero year preserved as omitted, got %d", doc.Items[1].Year)
	}
}

func TestRender(t *testing.T) {
	list, items := fixtureList()

	cases := []struct {
		format   string
		contains string
	}{
		{FormatJSON, `"slug": "action-classics"`},
		{FormatCSV, "Kind,TMDB,Title,Year"},
		{FormatMarkdown, "# Action Classics"},
		{FormatText, "List: Action Classics"},
		{"bogus", `"slug": "action-classics"`},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			data, err := Render(tc.format, list, items)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(string(data), tc.contains) {
				t.Errorf("expected %q in output, got %q", tc.contains, string(data))
			}
		})
	}
}

func TestSupportedAndExtension(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText} {
		if !Supported(format) {
			t.Errorf("expected %q to be supported", format)
		}
	}
	if Supported("yaml") {
		t.Error("expected yaml to be unsupported")
	}

	extensions := map[string]string{
		FormatJSON:     "json",
		FormatCSV:      "csv",
		FormatMarkdown: "md",
		FormatText:     "txt",
	}
	for format, want := range extensions {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}
