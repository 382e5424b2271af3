package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/timeutil"
)

// colWidths are the display widths per column ID.
var colWidths = map[string]int{
	report.ColDate:        10,
	report.ColClient:      18,
	report.ColJob:         18,
	report.ColJobType:     12,
	report.ColTeamMember:  14,
	report.ColDescription: 28,
	report.ColPurpose:     12,
	report.ColBillable:    8,
	report.ColDuration:    9,
	report.ColRate:        9,
	report.ColAmount:      10,
	report.ColStatus:      13,
}

// rowRef points a cursor position at a concrete log row.
type rowRef struct {
	log api.TimeLog
}

type logsModel struct {
	view     *report.View
	currency string
	width    int
	height   int

	cursor   int
	rows     []rowRef
	rendered []string // one line per visual row, cursor rows re-styled at view time
	cursorAt []int    // rendered line index of each rowRef
}

func newLogsModel(view *report.View, currency string) logsModel {
	return logsModel{view: view, currency: currency}
}

func (m *logsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// rebuild re-renders the grouped table after any data, sort, group or
// column change.
func (m *logsModel) rebuild() {
	m.rows = m.rows[:0]
	m.rendered = m.rendered[:0]
	m.cursorAt = m.cursorAt[:0]

	visible := m.view.Columns.VisibleOrdered()
	m.rendered = append(m.rendered, m.headerLine(visible))

	groups := m.view.Grouped()
	for _, g := range groups {
		if m.view.Mode != report.GroupFlat {
			rollup := g.Rollup()
			m.rendered = append(m.rendered, groupStyle.Render(fmt.Sprintf(
				"%s  (%s, %s)",
				g.Key,
				timeutil.FormatDuration(rollup.TotalDurationSecs),
				report.FormatCents(rollup.TotalAmountCents, m.currency),
			)))
		}
		for _, b := range g.Buckets {
			if m.view.Mode != report.GroupFlat && len(g.Buckets) > 1 {
				m.rendered = append(m.rendered, dimStyle.Render("  "+b.Key))
			}
			for _, log := range b.Logs {
				m.cursorAt = append(m.cursorAt, len(m.rendered))
				m.rendered = append(m.rendered, m.rowLine(log, visible))
				m.rows = append(m.rows, rowRef{log: log})
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.rows)-1))
}

func (m *logsModel) headerLine(visible []report.Column) string {
	cells := make([]string, len(visible))
	for i, c := range visible {
		title := c.Title
		if m.view.Sort.Field == sortFieldFor(c.ID) && m.view.Sort.Direction != report.DirNone {
			if m.view.Sort.Direction == report.DirAsc {
				title += " ↑"
			} else {
				title += " ↓"
			}
		}
		cells[i] = pad(title, colWidths[c.ID])
	}
	return headerStyle.Render(strings.Join(cells, " "))
}

func (m *logsModel) rowLine(log api.TimeLog, visible []report.Column) string {
	cells := make([]string, len(visible))
	for i, c := range visible {
		cells[i] = pad(m.cell(log, c.ID), colWidths[c.ID])
	}
	return strings.Join(cells, " ")
}

func (m *logsModel) cell(log api.TimeLog, colID string) string {
	switch colID {
	case report.ColDate:
		return timeutil.FormatDate(log.Date)
	case report.ColClient:
		return log.ClientName
	case report.ColJob:
		return log.JobName
	case report.ColJobType:
		return log.JobTypeName
	case report.ColTeamMember:
		return log.TeamMemberName
	case report.ColDescription:
		return log.Description
	case report.ColPurpose:
		return log.PurposeName
	case report.ColBillable:
		if log.Billable {
			return "Yes"
		}
		return "No"
	case report.ColDuration:
		return timeutil.FormatDuration(log.DurationSecs)
	case report.ColRate:
		return report.FormatAmount(log.BillableRate, m.currency)
	case report.ColAmount:
		return report.FormatAmount(log.Amount, m.currency)
	case report.ColStatus:
		return log.Status.Label()
	}
	return ""
}

// sortFieldFor maps a column ID to its sort field.
func sortFieldFor(colID string) report.SortField {
	switch colID {
	case report.ColDate:
		return report.FieldDate
	case report.ColClient:
		return report.FieldClient
	case report.ColJob:
		return report.FieldJob
	case report.ColJobType:
		return report.FieldJobType
	case report.ColTeamMember:
		return report.FieldTeamMember
	case report.ColDescription:
		return report.FieldDescription
	case report.ColPurpose:
		return report.FieldPurpose
	case report.ColBillable:
		return report.FieldBillable
	case report.ColDuration:
		return report.FieldDuration
	case report.ColRate:
		return report.FieldRate
	case report.ColAmount:
		return report.FieldAmount
	case report.ColStatus:
		return report.FieldStatus
	}
	return report.FieldDate
}

func (m *logsModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.rows)-1))
}

// selected returns the log under the cursor, if any.
func (m *logsModel) selected() (api.TimeLog, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return api.TimeLog{}, false
	}
	return m.rows[m.cursor].log, true
}

func (m *logsModel) render() string {
	if len(m.rendered) == 0 {
		m.rebuild()
	}

	var b strings.Builder
	for i, line := range m.rendered {
		if len(m.cursorAt) > 0 && m.cursor < len(m.cursorAt) && m.cursorAt[m.cursor] == i {
			b.WriteString(selectedStyle.Render("> "))
			b.WriteString(line)
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("\n  No time logs for the current filters.\n"))
	}

	rollup := m.view.Rollup()
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"  Page %d/%d · %d records · %s · %s",
		m.view.Page,
		m.view.TotalPages(),
		m.view.TotalRecords(),
		timeutil.FormatDuration(rollup.TotalDurationSecs),
		report.FormatCents(rollup.TotalAmountCents, m.currency),
	)))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

func pad(s string, width int) string {
	if width <= 0 {
		width = 10
	}
	s = truncateCell(s, width)
	if len([]rune(s)) < width {
		s += strings.Repeat(" ", width-len([]rune(s)))
	}
	return s
}
