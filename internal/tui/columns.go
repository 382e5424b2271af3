package tui

import (
	"fmt"
	"strings"

	"github.com/wipdash/wipdash/internal/report"
)

// columnsModel is the column editor: space toggles visibility, [ and ]
// move the highlighted column through the order.
type columnsModel struct {
	cols   *report.ColumnSet
	cursor int
}

func newColumnsModel(cols *report.ColumnSet) columnsModel {
	return columnsModel{cols: cols}
}

func (m *columnsModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, len(m.cols.All())-1)
}

func (m *columnsModel) toggle() {
	all := m.cols.All()
	if m.cursor < len(all) {
		m.cols.Toggle(all[m.cursor].ID)
	}
}

func (m *columnsModel) shift(delta int) {
	to := m.cursor + delta
	if to < 0 || to >= len(m.cols.All()) {
		return
	}
	m.cols.MoveIndex(m.cursor, to)
	m.cursor = to
}

func (m *columnsModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Columns"))
	b.WriteString("\n")

	for i, c := range m.cols.All() {
		mark := "[ ]"
		if c.Visible {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, c.Title)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space toggle · [ move up · ] move down · esc back"))
	return b.String()
}
