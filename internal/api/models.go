package api

import "time"

// Status is the invoicing state of a time log. Transitions only move
// forward: notInvoiced -> invoiced -> paid.
type Status string

const (
	StatusNotInvoiced Status = "notInvoiced"
	StatusInvoiced    Status = "invoiced"
	StatusPaid        Status = "paid"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusNotInvoiced, StatusInvoiced, StatusPaid:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusNotInvoiced:
		return next == StatusInvoiced
	case StatusInvoiced:
		return next == StatusPaid
	}
	return false
}

// Label returns the display text for a status, or the raw value when the
// backend sends something unknown.
func (s Status) Label() string {
	switch s {
	case StatusNotInvoiced:
		return "Not invoiced"
	case StatusInvoiced:
		return "Invoiced"
	case StatusPaid:
		return "Paid"
	}
	return string(s)
}

// TimeLog is a single logged block of work as the backend returns it.
// Amount is derived from duration and rate server-side; this client only
// reads, reorders and aggregates it.
type TimeLog struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	ClientID       string    `json:"clientId"`
	ClientName     string    `json:"clientName"`
	JobID          string    `json:"jobId"`
	JobName        string    `json:"jobName"`
	JobTypeID      string    `json:"jobTypeId"`
	JobTypeName    string    `json:"jobTypeName"`
	TeamMemberID   string    `json:"teamMemberId"`
	TeamMemberName string    `json:"teamMemberName"`
	Description    string    `json:"description"`
	DurationSecs   int64     `json:"durationSeconds"`
	BillableRate   float64   `json:"billableRate"`
	Amount         float64   `json:"amount"`
	Billable       bool      `json:"billable"`
	Status         Status    `json:"status"`
	PurposeID      string    `json:"timeCategoryId"`
	PurposeName    string    `json:"timeCategoryName"`
}

// Summary is the backend's roll-up over the whole filtered set, used for
// the dashboard cards. The client recomputes its own per-group roll-ups.
type Summary struct {
	TotalHours    float64 `json:"totalHours"`
	TotalAmount   float64 `json:"totalAmount"`
	UniqueClients int     `json:"uniqueClients"`
	UniqueJobs    int     `json:"uniqueJobs"`
}

// Pagination describes the server-side page window.
type Pagination struct {
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
	Limit        int `json:"limit"`
}

// TimeLogPage is the list-endpoint response envelope.
type TimeLogPage struct {
	TimeLogs   []TimeLog  `json:"timeLogs"`
	Summary    Summary    `json:"summary"`
	Pagination Pagination `json:"pagination"`
}

// ListParams narrows and pages the time-log listing. Zero values are
// omitted from the query string.
type ListParams struct {
	Page           int
	Limit          int
	ClientID       string
	JobID          string
	JobTypeID      string
	TeamMemberID   string
	TimeCategoryID string
	Billable       *bool
	Status         Status
	DateFrom       time.Time
	DateTo         time.Time
}

// UpdateTimeLogRequest carries the editable fields of a time log. Nil
// pointers mean "leave unchanged".
type UpdateTimeLogRequest struct {
	Description  *string  `json:"description,omitempty"`
	DurationSecs *int64   `json:"durationSeconds,omitempty"`
	BillableRate *float64 `json:"billableRate,omitempty"`
	Billable     *bool    `json:"billable,omitempty"`
	Status       *Status  `json:"status,omitempty"`
	JobID        *string  `json:"jobId,omitempty"`
}

// ClientRef is a billed customer as the reference endpoint lists it.
type ClientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Job is an engagement for a client.
type Job struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClientID  string `json:"clientId"`
	JobTypeID string `json:"jobTypeId"`
}

// JobType categorises jobs (audit, accounts, payroll, ...).
type JobType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamMember is a person who logs time.
type TeamMember struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Rate   float64 `json:"billableRate"`
	Active bool    `json:"active"`
}

// TimeCategory is the purpose tag on a log (client work, meeting, ...),
// distinct from the job type.
type TimeCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
