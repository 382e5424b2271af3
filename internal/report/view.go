package report

import (
	"time"

	"github.com/wipdash/wipdash/internal/api"
)

// FetchState is the lifecycle of the current page fetch.
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchLoading
	FetchReady
	FetchFailed
)

// All is the unset sentinel for single-value filters.
const All = "all"

// Filters is the full filter state of a view. Multi-select ID sets take
// precedence over the matching legacy single-value field when non-empty.
type Filters struct {
	Status   string // "all" or an api.Status value
	Billable string // "all", "yes", "no"
	DateFrom time.Time
	DateTo   time.Time

	ClientID     string
	JobID        string
	JobTypeID    string
	TeamMemberID string
	PurposeID    string

	ClientIDs     map[string]bool
	JobIDs        map[string]bool
	JobTypeIDs    map[string]bool
	TeamMemberIDs map[string]bool
	PurposeIDs    map[string]bool
}

// DefaultFilters returns the unset state every active-flag compares
// against.
func DefaultFilters() Filters {
	return Filters{Status: All, Billable: All}
}

// StatusActive reports whether the status filter differs from its default.
func (f Filters) StatusActive() bool { return f.Status != "" && f.Status != All }

// BillableActive reports whether the billable filter differs from its
// default.
func (f Filters) BillableActive() bool { return f.Billable != "" && f.Billable != All }

// DateActive reports whether either end of the date range is set.
func (f Filters) DateActive() bool { return !f.DateFrom.IsZero() || !f.DateTo.IsZero() }

// ClientActive reports whether the client dimension narrows the view.
func (f Filters) ClientActive() bool { return len(f.ClientIDs) > 0 || f.ClientID != "" }

// JobActive reports whether the job dimension narrows the view.
func (f Filters) JobActive() bool { return len(f.JobIDs) > 0 || f.JobID != "" }

// JobTypeActive reports whether the job-type dimension narrows the view.
func (f Filters) JobTypeActive() bool { return len(f.JobTypeIDs) > 0 || f.JobTypeID != "" }

// TeamActive reports whether the team dimension narrows the view.
func (f Filters) TeamActive() bool { return len(f.TeamMemberIDs) > 0 || f.TeamMemberID != "" }

// PurposeActive reports whether the purpose dimension narrows the view.
func (f Filters) PurposeActive() bool { return len(f.PurposeIDs) > 0 || f.PurposeID != "" }

// AnyActive reports whether any filter differs from its unset default,
// used to highlight the filter control.
func (f Filters) AnyActive() bool {
	return f.StatusActive() || f.BillableActive() || f.DateActive() ||
		f.ClientActive() || f.JobActive() || f.JobTypeActive() ||
		f.TeamActive() || f.PurposeActive()
}

// View is the owned state of one paged time-log table: filters, sort,
// grouping, columns and the fetched page, plus the generation counter that
// keeps stale responses from clobbering newer ones.
type View struct {
	Page     int
	PageSize int
	Filters  Filters
	Sort     SortSpec
	Mode     GroupMode
	Columns  *ColumnSet

	state      FetchState
	generation uint64
	lastError  string

	logs       []api.TimeLog
	summary    api.Summary
	pagination api.Pagination
}

// NewView returns a view at page 1 with default filters and columns.
func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &View{
		Page:     1,
		PageSize: pageSize,
		Filters:  DefaultFilters(),
		Mode:     GroupFlat,
		Columns:  DefaultColumns(),
	}
}

// State returns the current fetch state.
func (v *View) State() FetchState { return v.state }

// LastError returns the message of the most recent failed fetch.
func (v *View) LastError() string { return v.lastError }

// Logs returns the records of the current page, post client-side sort.
func (v *View) Logs() []api.TimeLog { return v.logs }

// Summary returns the backend's roll-up for the whole filtered set.
func (v *View) Summary() api.Summary { return v.summary }

// TotalPages returns the server-reported page count, at least 1.
func (v *View) TotalPages() int {
	if v.pagination.TotalPages < 1 {
		return 1
	}
	return v.pagination.TotalPages
}

// TotalRecords returns the server-reported record count.
func (v *View) TotalRecords() int { return v.pagination.TotalRecords }

// SetFilters replaces the filter state and resets to page 1, so the view
// never sits on an out-of-range page.
func (v *View) SetFilters(f Filters) {
	v.Filters = f
	v.Page = 1
}

// ResetFilters restores the defaults and resets to page 1.
func (v *View) ResetFilters() {
	v.SetFilters(DefaultFilters())
}

// SetPageSize changes the page size and resets to page 1.
func (v *View) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.PageSize = size
	v.Page = 1
}

// NextPage advances one page, clamped to the server total.
func (v *View) NextPage() bool {
	if v.Page >= v.TotalPages() {
		return false
	}
	v.Page++
	return true
}

// PrevPage steps back one page, clamped to 1.
func (v *View) PrevPage() bool {
	if v.Page <= 1 {
		return false
	}
	v.Page--
	return true
}

// BeginFetch marks the view loading and returns the generation tag the
// eventual result must carry.
func (v *View) BeginFetch() uint64 {
	v.generation++
	v.state = FetchLoading
	return v.generation
}

// ApplyPage installs a fetched page. Results tagged with a superseded
// generation are discarded and the method reports false: the last request
// wins.
func (v *View) ApplyPage(gen uint64, page *api.TimeLogPage) bool {
	if gen != v.generation {
		return false
	}
	v.logs = FilterLogs(page.TimeLogs, v.Filters)
	v.summary = page.Summary
	v.pagination = page.Pagination
	v.state = FetchReady
	v.lastError = ""
	v.resort()
	return true
}

// ApplyError records a failed fetch. Stale errors are discarded too; the
// previous page stays visible as last-known-good state.
func (v *View) ApplyError(gen uint64, err error) bool {
	if gen != v.generation {
		return false
	}
	v.state = FetchFailed
	v.lastError = err.Error()
	return true
}

// ToggleSort cycles the sort on field and re-applies it to the resident
// page.
func (v *View) ToggleSort(field SortField) {
	v.Sort.Toggle(field)
	v.resort()
}

func (v *View) resort() {
	SortLogs(v.logs, v.Sort)
}

// Grouped returns the current page nested by the view's group mode, with
// the sort applied inside each bucket.
func (v *View) Grouped() []Group {
	groups := GroupLogs(v.logs, v.Mode)
	SortGrouped(groups, v.Sort)
	return groups
}

// Rollup recomputes the client-side roll-up over the resident page.
func (v *View) Rollup() Rollup {
	return Aggregate(v.logs)
}

// Params translates the view state into list-endpoint parameters. When a
// multi-select set holds exactly one ID it maps onto the single-value
// request field; larger sets fall back to the first-match legacy field
// being unset so the remaining narrowing happens client-side via Matches.
func (v *View) Params() api.ListParams {
	p := api.ListParams{
		Page:  v.Page,
		Limit: v.PageSize,
	}

	p.ClientID = pickID(v.Filters.ClientIDs, v.Filters.ClientID)
	p.JobID = pickID(v.Filters.JobIDs, v.Filters.JobID)
	p.JobTypeID = pickID(v.Filters.JobTypeIDs, v.Filters.JobTypeID)
	p.TeamMemberID = pickID(v.Filters.TeamMemberIDs, v.Filters.TeamMemberID)
	p.TimeCategoryID = pickID(v.Filters.PurposeIDs, v.Filters.PurposeID)

	if v.Filters.StatusActive() {
		p.Status = api.Status(v.Filters.Status)
	}
	switch v.Filters.Billable {
	case "yes":
		b := true
		p.Billable = &b
	case "no":
		b := false
		p.Billable = &b
	}
	p.DateFrom = v.Filters.DateFrom
	p.DateTo = v.Filters.DateTo

	return p
}

// pickID applies the precedence rule: a non-empty multi-select set wins
// over the legacy single value. A single-element set collapses to that
// element; a larger set cannot be expressed as one query parameter and
// leaves the field empty.
func pickID(set map[string]bool, legacy string) string {
	if len(set) == 1 {
		for id := range set {
			return id
		}
	}
	if len(set) > 1 {
		return ""
	}
	return legacy
}

// Matches applies the client-side predicates the list endpoint cannot
// express (multi-select sets wider than one ID).
func (f Filters) Matches(log api.TimeLog) bool {
	if len(f.ClientIDs) > 1 && !f.ClientIDs[log.ClientID] {
		return false
	}
	if len(f.JobIDs) > 1 && !f.JobIDs[log.JobID] {
		return false
	}
	if len(f.JobTypeIDs) > 1 && !f.JobTypeIDs[log.JobTypeID] {
		return false
	}
	if len(f.TeamMemberIDs) > 1 && !f.TeamMemberIDs[log.TeamMemberID] {
		return false
	}
	if len(f.PurposeIDs) > 1 && !f.PurposeIDs[log.PurposeID] {
		return false
	}
	return true
}

// FilterLogs returns the logs passing the client-side predicates.
func FilterLogs(logs []api.TimeLog, f Filters) []api.TimeLog {
	var out []api.TimeLog
	for _, log := range logs {
		if f.Matches(log) {
			out = append(out, log)
		}
	}
	return out
}
