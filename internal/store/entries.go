package store

import (
	"fmt"
	"time"

	"github.com/wipdash/wipdash/internal/api"
)

const lastSyncKey = "last_synced_at"

// SaveSnapshot replaces the stored snapshot with the given logs and stamps
// the sync time. The swap is transactional so a failed save never leaves a
// half-written snapshot behind.
func (db *DB) SaveSnapshot(logs []api.TimeLog) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM time_logs"); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO time_logs (id, date, client_id, client_name, job_id, job_name,
			job_type_id, job_type_name, team_member_id, team_member_name, description,
			duration_seconds, billable_rate, amount, billable, status, purpose_id, purpose_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		_, err := stmt.Exec(
			l.ID, l.Date.UTC().Format(time.RFC3339), l.ClientID, l.ClientName,
			l.JobID, l.JobName, l.JobTypeID, l.JobTypeName,
			l.TeamMemberID, l.TeamMemberName, l.Description,
			l.DurationSecs, l.BillableRate, l.Amount, l.Billable,
			string(l.Status), l.PurposeID, l.PurposeName,
		)
		if err != nil {
			return fmt.Errorf("inserting time log %s: %w", l.ID, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		lastSyncKey, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("stamping sync time: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored logs, oldest first, optionally narrowed
// to a date window.
func (db *DB) LoadSnapshot(from, to time.Time) ([]api.TimeLog, error) {
	query := `SELECT id, date, client_id, client_name, job_id, job_name,
		job_type_id, job_type_name, team_member_id, team_member_name, description,
		duration_seconds, billable_rate, amount, billable, status, purpose_id, purpose_name
		FROM time_logs WHERE 1=1`
	var args []any

	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		// Inclusive: callers pass an end-of-day bound.
		query += " AND date <= ?"
		args = append(args, to.UTC().Format(time.RFC3339))
	}
	query += " ORDER BY date ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	var logs []api.TimeLog
	for rows.Next() {
		var l api.TimeLog
		var dateStr, status string

		if err := rows.Scan(
			&l.ID, &dateStr, &l.ClientID, &l.ClientName, &l.JobID, &l.JobName,
			&l.JobTypeID, &l.JobTypeName, &l.TeamMemberID, &l.TeamMemberName, &l.Description,
			&l.DurationSecs, &l.BillableRate, &l.Amount, &l.Billable,
			&status, &l.PurposeID, &l.PurposeName,
		); err != nil {
			return nil, fmt.Errorf("scanning time log: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
			l.Date = t
		}
		l.Status = api.Status(status)

		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// LastSyncedAt returns when the snapshot was last refreshed, or the zero
// time when nothing has been synced yet.
func (db *DB) LastSyncedAt() (time.Time, error) {
	val, err := db.GetState(lastSyncKey)
	if err != nil || val == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sync timestamp: %w", err)
	}
	return t, nil
}
