// Package export renders the current view of time logs to downloadable
// formats. It never reorders rows: it reflects whatever sorted/grouped
// order the report engine handed it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/timeutil"
)

// utf8BOM makes spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const placeholder = "—"

// Options tune the delimited output.
type Options struct {
	CurrencySymbol string // defaults to "€"
	Delimiter      rune   // defaults to ','
	CRLF           bool
}

func (o Options) withDefaults() Options {
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = "€"
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	return o
}

// WriteCSV writes a BOM, one header row of the visible column titles in
// order, and one row per log with that projection applied.
func WriteCSV(w io.Writer, logs []api.TimeLog, cols *report.ColumnSet, opts Options) error {
	opts = opts.withDefaults()

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter
	cw.UseCRLF = opts.CRLF

	visible := cols.VisibleOrdered()
	header := make([]string, len(visible))
	for i, c := range visible {
		header[i] = c.Title
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, log := range logs {
		row := make([]string, len(visible))
		for i, c := range visible {
			row[i] = cell(log, c.ID, opts)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVToFile writes the projection to path.
func CSVToFile(path string, logs []api.TimeLog, cols *report.ColumnSet, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, logs, cols, opts); err != nil {
		return err
	}
	return f.Close()
}

// cell formats one column of one log. Every visible column produces
// exactly one cell; empty values render as the placeholder dash.
func cell(log api.TimeLog, colID string, opts Options) string {
	switch colID {
	case report.ColDate:
		return orPlaceholder(timeutil.FormatDate(log.Date))
	case report.ColClient:
		return orPlaceholder(log.ClientName)
	case report.ColJob:
		return orPlaceholder(log.JobName)
	case report.ColJobType:
		return orPlaceholder(log.JobTypeName)
	case report.ColTeamMember:
		return orPlaceholder(log.TeamMemberName)
	case report.ColDescription:
		return orPlaceholder(log.Description)
	case report.ColPurpose:
		return orPlaceholder(log.PurposeName)
	case report.ColBillable:
		if log.Billable {
			return "Yes"
		}
		return "No"
	case report.ColDuration:
		return timeutil.FormatDuration(log.DurationSecs)
	case report.ColRate:
		return report.FormatAmount(log.BillableRate, opts.CurrencySymbol)
	case report.ColAmount:
		return report.FormatAmount(log.Amount, opts.CurrencySymbol)
	case report.ColStatus:
		return orPlaceholder(log.Status.Label())
	}
	return placeholder
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
