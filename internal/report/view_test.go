package report

import (
	"errors"
	"testing"
	"time"

	"github.com/wipdash/wipdash/internal/api"
)

func TestDefaultFiltersInactive(t *testing.T) {
	f := DefaultFilters()
	if f.AnyActive() {
		t.Fatal("default filters must report inactive")
	}

	f.Status = string(api.StatusPaid)
	if !f.StatusActive() || !f.AnyActive() {
		t.Fatal("setting status must flip the active flag")
	}
}

func TestFilterActiveFlags(t *testing.T) {
	f := DefaultFilters()
	f.DateFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !f.DateActive() {
		t.Fatal("dateFrom alone must activate the date filter")
	}

	f = DefaultFilters()
	f.ClientIDs = map[string]bool{"c1": true}
	if !f.ClientActive() {
		t.Fatal("non-empty client set must activate the client filter")
	}

	f = DefaultFilters()
	f.Billable = "yes"
	if !f.BillableActive() {
		t.Fatal("billable=yes must activate the billable filter")
	}
}

func TestSetFiltersResetsPage(t *testing.T) {
	v := NewView(25)
	v.Page = 7
	f := DefaultFilters()
	f.Status = string(api.StatusInvoiced)
	v.SetFilters(f)
	if v.Page != 1 {
		t.Fatalf("page after filter change = %d, want 1", v.Page)
	}

	v.Page = 3
	v.SetPageSize(100)
	if v.Page != 1 {
		t.Fatalf("page after page-size change = %d, want 1", v.Page)
	}
}

func TestPageClamping(t *testing.T) {
	v := NewView(25)
	if v.PrevPage() {
		t.Fatal("cannot step below page 1")
	}
	v.ApplyPage(v.BeginFetch(), &api.TimeLogPage{
		Pagination: api.Pagination{TotalPages: 2, TotalRecords: 30, Limit: 25},
	})
	if !v.NextPage() || v.Page != 2 {
		t.Fatalf("next page = %d, want 2", v.Page)
	}
	if v.NextPage() {
		t.Fatal("cannot step past the last page")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	v := NewView(25)

	gen1 := v.BeginFetch()
	gen2 := v.BeginFetch() // supersedes gen1

	stale := &api.TimeLogPage{TimeLogs: []api.TimeLog{{ID: "old"}}}
	if v.ApplyPage(gen1, stale) {
		t.Fatal("stale page must be discarded")
	}
	if len(v.Logs()) != 0 {
		t.Fatal("stale page must not install logs")
	}

	fresh := &api.TimeLogPage{TimeLogs: []api.TimeLog{{ID: "new"}}}
	if !v.ApplyPage(gen2, fresh) {
		t.Fatal("current-generation page must apply")
	}
	if len(v.Logs()) != 1 || v.Logs()[0].ID != "new" {
		t.Fatalf("logs = %+v, want the fresh page", v.Logs())
	}
	if v.State() != FetchReady {
		t.Fatalf("state = %v, want ready", v.State())
	}
}

func TestStaleErrorDiscardedAndFreshErrorKeepsLogs(t *testing.T) {
	v := NewView(25)
	gen := v.BeginFetch()
	v.ApplyPage(gen, &api.TimeLogPage{TimeLogs: sampleLogs()})

	gen2 := v.BeginFetch()
	if v.ApplyError(gen, errors.New("old failure")) {
		t.Fatal("stale error must be discarded")
	}
	if !v.ApplyError(gen2, errors.New("backend down")) {
		t.Fatal("current error must apply")
	}
	if v.State() != FetchFailed || v.LastError() != "backend down" {
		t.Fatalf("state = %v, err = %q", v.State(), v.LastError())
	}
	// Last-known-good page stays visible.
	if len(v.Logs()) != 3 {
		t.Fatalf("logs after error = %d, want previous 3", len(v.Logs()))
	}
}

func TestParamsPrecedence(t *testing.T) {
	v := NewView(25)
	v.Filters.ClientID = "legacy"
	v.Filters.ClientIDs = map[string]bool{"chosen": true}

	p := v.Params()
	if p.ClientID != "chosen" {
		t.Fatalf("clientId = %q, want the multi-select winner", p.ClientID)
	}

	// A wider set cannot be one query param; narrowing moves client-side.
	v.Filters.ClientIDs = map[string]bool{"a": true, "b": true}
	if got := v.Params().ClientID; got != "" {
		t.Fatalf("clientId = %q, want empty for multi-ID set", got)
	}

	// Empty set falls back to the legacy field.
	v.Filters.ClientIDs = nil
	if got := v.Params().ClientID; got != "legacy" {
		t.Fatalf("clientId = %q, want legacy fallback", got)
	}
}

func TestParamsBillableAndStatus(t *testing.T) {
	v := NewView(25)
	v.Filters.Billable = "no"
	v.Filters.Status = string(api.StatusPaid)

	p := v.Params()
	if p.Billable == nil || *p.Billable {
		t.Fatal("billable=no must map to false pointer")
	}
	if p.Status != api.StatusPaid {
		t.Fatalf("status = %q, want paid", p.Status)
	}

	v.Filters.Billable = All
	if v.Params().Billable != nil {
		t.Fatal("billable=all must stay unset")
	}
}

func TestClientSidePredicates(t *testing.T) {
	f := DefaultFilters()
	f.ClientIDs = map[string]bool{"c1": true, "c2": true}

	logs := []api.TimeLog{
		{ID: "in", ClientID: "c1"},
		{ID: "out", ClientID: "c9"},
	}
	got := FilterLogs(logs, f)
	if len(got) != 1 || got[0].ID != "in" {
		t.Fatalf("filtered = %+v, want only c1", got)
	}

	// Single-element sets are pushed to the server, not re-applied here.
	f.ClientIDs = map[string]bool{"c1": true}
	if got := FilterLogs(logs, f); len(got) != 2 {
		t.Fatalf("single-ID set filtered %d, want passthrough 2", len(got))
	}
}

func TestApplyPageFiltersAndResorts(t *testing.T) {
	v := NewView(25)
	v.Sort = SortSpec{Field: FieldDate, Direction: DirDesc}
	v.Filters.ClientIDs = map[string]bool{"c1": true, "c2": true}

	logs := append(sampleLogs(), api.TimeLog{ID: "drop", ClientID: "c9"})
	v.ApplyPage(v.BeginFetch(), &api.TimeLogPage{TimeLogs: logs})

	got := v.Logs()
	if len(got) != 3 {
		t.Fatalf("applied logs = %d, want 3 after predicate", len(got))
	}
	if got[0].ID != "t3" {
		t.Fatalf("first log = %s, want t3 (date desc)", got[0].ID)
	}
}

func TestToggleSortResortsResidentPage(t *testing.T) {
	v := NewView(25)
	v.ApplyPage(v.BeginFetch(), &api.TimeLogPage{TimeLogs: sampleLogs()})

	v.ToggleSort(FieldDuration)
	if v.Logs()[0].ID != "t3" {
		t.Fatalf("asc duration first = %s, want t3", v.Logs()[0].ID)
	}
	v.ToggleSort(FieldDuration)
	if v.Logs()[0].ID != "t1" {
		t.Fatalf("desc duration first = %s, want t1", v.Logs()[0].ID)
	}
}
