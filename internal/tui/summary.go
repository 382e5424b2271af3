package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/timeutil"
)

var barPalette = []string{"12", "10", "13", "14", "11", "9", "6", "5"}

// summaryModel renders the roll-up cards and an hours-by-client chart
// over the resident page.
type summaryModel struct {
	view        *report.View
	currency    string
	warnPercent float64
	width       int
	height      int

	chart barchart.Model
}

func newSummaryModel(view *report.View, currency string, warnPercent float64) summaryModel {
	return summaryModel{
		view:        view,
		currency:    currency,
		warnPercent: warnPercent,
		chart:       barchart.New(60, 12),
	}
}

func (m *summaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// rebuild redraws the chart from the current page grouped by client.
func (m *summaryModel) rebuild() {
	chartWidth := clamp(m.width-6, 30, 100)
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	groups := report.GroupLogs(m.view.Logs(), report.GroupByClient)
	var bars []barchart.BarData
	for i, g := range groups {
		rollup := g.Rollup()
		hours := float64(rollup.TotalDurationSecs) / 3600.0
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(barPalette[i%len(barPalette)]))
		bars = append(bars, barchart.BarData{
			Label: truncateCell(g.Key, 10),
			Values: []barchart.BarValue{
				{Name: g.Key, Value: hours, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m *summaryModel) render() string {
	rollup := m.view.Rollup()
	share := report.UnbilledShare(m.view.Logs()) * 100

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Hours", timeutil.FormatDuration(rollup.TotalDurationSecs)),
		m.card("Amount", report.FormatCents(rollup.TotalAmountCents, m.currency)),
		m.card("Entries", fmt.Sprintf("%d", rollup.EntryCount)),
		m.card("Clients", fmt.Sprintf("%d", rollup.DistinctClients)),
		m.card("Team", fmt.Sprintf("%d", rollup.DistinctTeamMembers)),
	)

	wipLine := fmt.Sprintf("Unbilled share: %.1f%%", share)
	if m.warnPercent > 0 && share > m.warnPercent {
		wipLine = warningStyle.Render(wipLine + fmt.Sprintf("  (above %.0f%% threshold)", m.warnPercent))
	} else {
		wipLine = dimStyle.Render(wipLine)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(wipLine)
	b.WriteString("\n\n")
	if len(m.view.Logs()) == 0 {
		b.WriteString(dimStyle.Render("  No data for the current filters."))
	} else {
		b.WriteString(groupStyle.Render("Hours by client"))
		b.WriteString("\n")
		b.WriteString(m.chart.View())
	}
	return b.String()
}

func (m *summaryModel) card(label, value string) string {
	content := dimStyle.Render(label) + "\n" + highlightStyle.Render(value)
	return boxStyle.Render(content)
}
