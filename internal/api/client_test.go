package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL, time.Minute, nil), srv
}

func TestListTimeLogsParams(t *testing.T) {
	var gotQuery map[string][]string
	var gotKey string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-Api-Key")
		json.NewEncoder(w).Encode(TimeLogPage{
			TimeLogs:   []TimeLog{{ID: "t1", ClientName: "Acme"}},
			Summary:    Summary{TotalHours: 2, TotalAmount: 200},
			Pagination: Pagination{TotalRecords: 1, TotalPages: 1, Limit: 50},
		})
	}))

	billable := true
	page, err := client.ListTimeLogs(context.Background(), ListParams{
		Page:         2,
		Limit:        25,
		ClientID:     "c1",
		TeamMemberID: "u1",
		Billable:     &billable,
		Status:       StatusInvoiced,
		DateFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListTimeLogs: %v", err)
	}

	if gotKey != "test-key" {
		t.Fatalf("X-Api-Key = %q", gotKey)
	}
	wantParams := map[string]string{
		"page":     "2",
		"limit":    "25",
		"clientId": "c1",
		"userId":   "u1",
		"billable": "true",
		"status":   "invoiced",
		"dateFrom": "2024-01-01T00:00:00Z",
	}
	for k, want := range wantParams {
		if got := gotQuery[k]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %s", k, got, want)
		}
	}
	if _, present := gotQuery["jobId"]; present {
		t.Error("unset jobId must be omitted from the query")
	}

	if len(page.TimeLogs) != 1 || page.TimeLogs[0].ClientName != "Acme" {
		t.Fatalf("page = %+v", page)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(TimeLogPage{})
	}))

	start := time.Now()
	_, err := client.ListTimeLogs(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
	// Two backoff sleeps (1s + 2s) should have happened.
	if time.Since(start) < 3*time.Second {
		t.Fatal("expected exponential backoff between retries")
	}
}

func TestClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"bad filter"}`))
	}))

	_, err := client.ListTimeLogs(context.Background(), ListParams{})
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestDeleteTimeLogs(t *testing.T) {
	var gotBody struct {
		TimeLogIDs []string `json:"timeLogIds"`
	}
	var gotMethod string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))

	if err := client.DeleteTimeLogs(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("DeleteTimeLogs: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("method = %s, want DELETE", gotMethod)
	}
	if len(gotBody.TimeLogIDs) != 2 || gotBody.TimeLogIDs[0] != "a" {
		t.Fatalf("body = %+v", gotBody)
	}

	// Empty batch never hits the network.
	if err := client.DeleteTimeLogs(context.Background(), nil); err != nil {
		t.Fatalf("empty delete: %v", err)
	}
}

func TestUpdateTimeLog(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/time-logs/t1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req UpdateTimeLogRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(TimeLog{ID: "t1", Description: *req.Description})
	}))

	desc := "updated"
	updated, err := client.UpdateTimeLog(context.Background(), "t1", UpdateTimeLogRequest{Description: &desc})
	if err != nil {
		t.Fatalf("UpdateTimeLog: %v", err)
	}
	if updated.Description != "updated" {
		t.Fatalf("description = %q", updated.Description)
	}

	if _, err := client.UpdateTimeLog(context.Background(), "", UpdateTimeLogRequest{}); err == nil {
		t.Fatal("empty ID must error")
	}
}

func TestReferenceListCaching(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([]ClientRef{{ID: "c1", Name: "Acme"}})
	}))

	for i := 0; i < 3; i++ {
		clients, err := client.ListClients(context.Background())
		if err != nil {
			t.Fatalf("ListClients: %v", err)
		}
		if len(clients) != 1 || clients[0].Name != "Acme" {
			t.Fatalf("clients = %+v", clients)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("backend calls = %d, want 1 (cached)", got)
	}

	client.cache.Invalidate()
	if _, err := client.ListClients(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("backend calls after invalidate = %d, want 2", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusNotInvoiced, StatusInvoiced, true},
		{StatusInvoiced, StatusPaid, true},
		{StatusNotInvoiced, StatusPaid, false},
		{StatusPaid, StatusInvoiced, false},
		{StatusInvoiced, StatusNotInvoiced, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.ok {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
	if !StatusPaid.Valid() || Status("weird").Valid() {
		t.Fatal("Valid misclassifies")
	}
}
