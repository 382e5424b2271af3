// Package report is the tabular reconciliation engine behind the time-log,
// WIP and schedule views: it groups flat time logs into nested buckets,
// sorts them by a declarative field spec, computes roll-ups per bucket and
// projects an ordered, toggle-able column set for rendering and export.
package report

import (
	"sort"
	"strings"

	"github.com/wipdash/wipdash/internal/api"
)

// SortField names one sortable column of the time-log table.
type SortField string

const (
	FieldDate        SortField = "date"
	FieldClientRef   SortField = "clientRef"
	FieldClient      SortField = "client"
	FieldJob         SortField = "job"
	FieldJobType     SortField = "jobType"
	FieldTeamMember  SortField = "teamMember"
	FieldDescription SortField = "description"
	FieldPurpose     SortField = "purpose"
	FieldBillable    SortField = "billable"
	FieldDuration    SortField = "duration"
	FieldRate        SortField = "rate"
	FieldAmount      SortField = "amount"
	FieldStatus      SortField = "status"
)

// SortFields lists every sortable field in display order.
var SortFields = []SortField{
	FieldDate, FieldClientRef, FieldClient, FieldJob, FieldJobType,
	FieldTeamMember, FieldDescription, FieldPurpose, FieldBillable,
	FieldDuration, FieldRate, FieldAmount, FieldStatus,
}

// Direction is a sort direction. None means "leave the order alone".
type Direction int

const (
	DirNone Direction = iota
	DirAsc
	DirDesc
)

// Next cycles asc -> desc -> none -> asc.
func (d Direction) Next() Direction {
	switch d {
	case DirAsc:
		return DirDesc
	case DirDesc:
		return DirNone
	default:
		return DirAsc
	}
}

func (d Direction) String() string {
	switch d {
	case DirAsc:
		return "asc"
	case DirDesc:
		return "desc"
	}
	return "none"
}

// SortSpec is the current sort choice of a view.
type SortSpec struct {
	Field     SortField
	Direction Direction
}

// Toggle applies a user click on a column header: the same field cycles
// through directions, a new field resets to ascending.
func (s *SortSpec) Toggle(field SortField) {
	if s.Field == field {
		s.Direction = s.Direction.Next()
		return
	}
	s.Field = field
	s.Direction = DirAsc
}

// compareStrings is case-insensitive; the empty string sorts lowest.
func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	av, bv := int64(0), int64(0)
	if a {
		av = 1
	}
	if b {
		bv = 1
	}
	return compareInt64(av, bv)
}

// statusRank orders statuses along their lifecycle. Unknown values rank
// lowest, matching the missing-sorts-lowest rule.
func statusRank(s api.Status) int64 {
	switch s {
	case api.StatusNotInvoiced:
		return 1
	case api.StatusInvoiced:
		return 2
	case api.StatusPaid:
		return 3
	}
	return 0
}

// CompareField compares two logs on a single field, ascending. Dates
// compare by epoch, strings case-insensitively, booleans as 0/1, numbers
// numerically. It never fails: zero values simply compare lowest.
func CompareField(a, b api.TimeLog, field SortField) int {
	switch field {
	case FieldDate:
		return compareInt64(a.Date.UnixMilli(), b.Date.UnixMilli())
	case FieldClientRef:
		return compareStrings(a.ClientID, b.ClientID)
	case FieldClient:
		return compareStrings(a.ClientName, b.ClientName)
	case FieldJob:
		return compareStrings(a.JobName, b.JobName)
	case FieldJobType:
		return compareStrings(a.JobTypeName, b.JobTypeName)
	case FieldTeamMember:
		return compareStrings(a.TeamMemberName, b.TeamMemberName)
	case FieldDescription:
		return compareStrings(a.Description, b.Description)
	case FieldPurpose:
		return compareStrings(a.PurposeName, b.PurposeName)
	case FieldBillable:
		return compareBool(a.Billable, b.Billable)
	case FieldDuration:
		return compareInt64(a.DurationSecs, b.DurationSecs)
	case FieldRate:
		return compareFloat64(a.BillableRate, b.BillableRate)
	case FieldAmount:
		return compareFloat64(a.Amount, b.Amount)
	case FieldStatus:
		return compareInt64(statusRank(a.Status), statusRank(b.Status))
	}
	return 0
}

// Compare applies the field rule and direction. DirNone always reports
// equal so a stable sort leaves the input order untouched.
func Compare(a, b api.TimeLog, field SortField, dir Direction) int {
	if dir == DirNone {
		return 0
	}
	cmp := CompareField(a, b, field)
	if dir == DirDesc {
		return -cmp
	}
	return cmp
}

// SortLogs sorts logs in place by spec. The sort is stable, so DirNone is
// a no-op and ties keep their arrival order.
func SortLogs(logs []api.TimeLog, spec SortSpec) {
	if spec.Direction == DirNone {
		return
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return Compare(logs[i], logs[j], spec.Field, spec.Direction) < 0
	})
}
