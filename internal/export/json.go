package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/timeutil"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Summary    jsonSummary `json:"summary"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonSummary struct {
	TotalDuration string `json:"total_duration"`
	TotalAmount   string `json:"total_amount"`
	Clients       int    `json:"clients"`
	TeamMembers   int    `json:"team_members"`
}

type jsonEntry struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Client       string `json:"client,omitempty"`
	Job          string `json:"job,omitempty"`
	JobType      string `json:"job_type,omitempty"`
	TeamMember   string `json:"team_member,omitempty"`
	Description  string `json:"description,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Billable     bool   `json:"billable"`
	DurationSecs int64  `json:"duration_seconds"`
	Duration     string `json:"duration"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
}

// WriteJSON renders logs with a recomputed roll-up header.
func WriteJSON(w io.Writer, logs []api.TimeLog, opts Options) error {
	opts = opts.withDefaults()
	rollup := report.Aggregate(logs)

	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
		Summary: jsonSummary{
			TotalDuration: timeutil.FormatDuration(rollup.TotalDurationSecs),
			TotalAmount:   report.FormatCents(rollup.TotalAmountCents, opts.CurrencySymbol),
			Clients:       rollup.DistinctClients,
			TeamMembers:   rollup.DistinctTeamMembers,
		},
	}

	for _, log := range logs {
		out.Entries = append(out.Entries, jsonEntry{
			ID:           log.ID,
			Date:         timeutil.FormatDate(log.Date),
			Client:       log.ClientName,
			Job:          log.JobName,
			JobType:      log.JobTypeName,
			TeamMember:   log.TeamMemberName,
			Description:  log.Description,
			Purpose:      log.PurposeName,
			Billable:     log.Billable,
			DurationSecs: log.DurationSecs,
			Duration:     timeutil.FormatDuration(log.DurationSecs),
			Amount:       report.FormatAmount(log.Amount, opts.CurrencySymbol),
			Status:       string(log.Status),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// JSONToFile writes the JSON export to path.
func JSONToFile(path string, logs []api.TimeLog, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, logs, opts); err != nil {
		return err
	}
	return f.Close()
}
