package tui

import (
	"github.com/wipdash/wipdash/internal/api"
)

// viewState is the active screen of the dashboard.
type viewState int

const (
	logsView viewState = iota
	summaryView
	filterView
	columnsView
	editView
	exportPickView
	confirmDeleteView
)

// --- Messages ---

// logsMsg carries one fetched page tagged with the generation of the
// request that produced it. The coordinator discards stale generations.
type logsMsg struct {
	gen  uint64
	page *api.TimeLogPage
	err  error
}

type refsMsg struct {
	clients    []api.ClientRef
	jobs       []api.Job
	team       []api.TeamMember
	jobTypes   []api.JobType
	categories []api.TimeCategory
	err        error
}

type deletedMsg struct {
	ids []string
	err error
}

type updatedMsg struct {
	log *api.TimeLog
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type snapshotSavedMsg struct {
	err error
}

// --- Helpers ---

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncateCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
