package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/report"
)

func sampleLogs() []api.TimeLog {
	return []api.TimeLog{
		{
			ID:   "t1",
			Date: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			ClientID: "c1", ClientName: "Acme",
			JobID: "j1", JobName: "Audit 2024",
			TeamMemberID: "u1", TeamMemberName: "Dana",
			Description:  `review of "draft" accounts, final`,
			DurationSecs: 5400, BillableRate: 120, Amount: 123.4,
			Billable: true, Status: api.StatusNotInvoiced,
		},
		{
			ID:   "t2",
			Date: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
			ClientID: "c2", ClientName: "Beta",
			DurationSecs: 3600, Amount: 80,
			Status: api.StatusPaid,
		},
	}
}

func readCSV(t *testing.T, raw []byte) [][]string {
	t.Helper()
	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("CSV output must start with a UTF-8 BOM")
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleLogs(), report.DefaultColumns(), Options{})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records := readCSV(t, buf.Bytes())
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 1 header + 2 data", len(records))
	}
	header := records[0]
	if header[0] != "Date" || header[1] != "Client" {
		t.Fatalf("header starts %q, %q; want Date, Client", header[0], header[1])
	}

	row := records[1]
	if row[0] != "05/03/2024" {
		t.Fatalf("date cell = %q, want 05/03/2024", row[0])
	}
}

func TestWriteCSVColumnProjection(t *testing.T) {
	// Only amount and date visible, amount ordered first.
	cols := report.NewColumnSet([]report.Column{
		{ID: report.ColAmount, Title: "Amount", Visible: true, Order: 0},
		{ID: report.ColDate, Title: "Date", Visible: true, Order: 1},
		{ID: report.ColClient, Title: "Client", Visible: false, Order: 2},
	})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleLogs()[:1], cols, Options{}); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, buf.Bytes())
	if got := strings.Join(records[0], ","); got != "Amount,Date" {
		t.Fatalf("header = %q, want Amount,Date", got)
	}
	if got := strings.Join(records[1], ","); got != "€123.40,05/03/2024" {
		t.Fatalf("row = %q, want €123.40,05/03/2024", got)
	}
}

func TestWriteCSVPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleLogs(), report.DefaultColumns(), Options{}); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())

	// Second log has no job or team member; those cells render as a dash.
	header := records[0]
	row := records[2]
	for i, h := range header {
		if h == "Job" || h == "Team Member" || h == "Description" {
			if row[i] != "—" {
				t.Fatalf("%s cell = %q, want placeholder dash", h, row[i])
			}
		}
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleLogs()[:1], report.DefaultColumns(), Options{}); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())

	// The description holds quotes and a comma and must survive intact.
	header := records[0]
	for i, h := range header {
		if h == "Description" {
			if records[1][i] != `review of "draft" accounts, final` {
				t.Fatalf("description mangled: %q", records[1][i])
			}
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, report.DefaultColumns(), Options{}); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	if len(records) != 1 {
		t.Fatalf("rows = %d, want header only", len(records))
	}
}

func TestWriteCSVCustomDelimiterAndCurrency(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleLogs()[:1], report.DefaultColumns(), Options{
		CurrencySymbol: "£",
		Delimiter:      ';',
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, ";") {
		t.Fatal("expected semicolon delimiter")
	}
	if !strings.Contains(out, "£123.40") {
		t.Fatalf("expected £123.40 in output: %q", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleLogs(), Options{}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out jsonExport
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if out.Summary.TotalDuration != "02:30:00" {
		t.Fatalf("total duration = %q, want 02:30:00", out.Summary.TotalDuration)
	}
	if out.Summary.TotalAmount != "€203.40" {
		t.Fatalf("total amount = %q, want €203.40", out.Summary.TotalAmount)
	}
	if out.Entries[0].Duration != "01:30:00" {
		t.Fatalf("entry duration = %q, want 01:30:00", out.Entries[0].Duration)
	}
	if _, err := time.Parse(time.RFC3339, out.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", out.ExportedAt)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	var out jsonExport
	json.Unmarshal(buf.Bytes(), &out)
	if out.Count != 0 || out.Entries != nil {
		t.Fatalf("empty export = %+v, want zero entries", out)
	}
	if out.Summary.TotalDuration != "00:00:00" {
		t.Fatalf("empty duration = %q, want 00:00:00", out.Summary.TotalDuration)
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, sampleLogs()); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatal("missing VCALENDAR envelope")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("events = %d, want 2", got)
	}
	if !strings.Contains(out, "t1@wipdash") {
		t.Fatal("missing event UID")
	}
}

func TestWriteICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, nil); err != nil {
		t.Fatalf("empty ICS export must not fail: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Fatal("missing VCALENDAR envelope")
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("empty export must carry no events")
	}
}
