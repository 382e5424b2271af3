package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/timeutil"
)

// editModel drives the entry edit form. Duration accepts the same
// colon-delimited text the codec parses, so partial input degrades to 0
// instead of blocking the form. Status only offers the forward transition
// the lifecycle allows.
type editModel struct {
	form *huh.Form
	orig api.TimeLog

	description *string
	duration    *string
	billable    *string
	status      *string
}

func newEditModel() editModel {
	return editModel{
		description: new(string),
		duration:    new(string),
		billable:    new(string),
		status:      new(string),
	}
}

func (m *editModel) show(log api.TimeLog) tea.Cmd {
	m.orig = log
	*m.description = log.Description
	*m.duration = timeutil.FormatDuration(log.DurationSecs)
	*m.billable = "no"
	if log.Billable {
		*m.billable = "yes"
	}
	*m.status = string(log.Status)

	statusOpts := []huh.Option[string]{
		huh.NewOption(log.Status.Label(), string(log.Status)),
	}
	for _, next := range []api.Status{api.StatusInvoiced, api.StatusPaid} {
		if log.Status.CanTransition(next) {
			statusOpts = append(statusOpts, huh.NewOption(next.Label(), string(next)))
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(m.description),
			huh.NewInput().Title("Duration (HH:mm:ss)").
				Placeholder("01:30:00").Value(m.duration),
			huh.NewSelect[string]().Title("Billable").
				Options(
					huh.NewOption("Yes", "yes"),
					huh.NewOption("No", "no"),
				).Value(m.billable),
			huh.NewSelect[string]().Title("Status").
				Options(statusOpts...).Value(m.status),
		).Title("Edit entry"),
	).WithShowHelp(true).WithShowErrors(true)

	return m.form.Init()
}

// update advances the form; done reports completion.
func (m *editModel) update(msg tea.Msg) (tea.Cmd, bool) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return cmd, true
	}
	return cmd, false
}

// result builds the patch request from the form values.
func (m *editModel) result() (api.UpdateTimeLogRequest, bool) {
	return buildUpdate(m.orig, *m.description, *m.duration, *m.billable, *m.status)
}

func (m *editModel) render() string {
	if m.form == nil {
		return ""
	}
	return titleStyle.Render("Edit") + "\n" + m.form.View()
}

// buildUpdate diffs the form values against the original log and returns a
// request carrying only the changed fields. Status changes that the
// lifecycle forbids are dropped rather than sent. The second return value
// reports whether anything changed at all.
func buildUpdate(orig api.TimeLog, description, durationText, billable, status string) (api.UpdateTimeLogRequest, bool) {
	var req api.UpdateTimeLogRequest
	changed := false

	if description != orig.Description {
		req.Description = &description
		changed = true
	}

	if secs := timeutil.ParseDuration(durationText); secs != orig.DurationSecs {
		req.DurationSecs = &secs
		changed = true
	}

	wantBillable := billable == "yes"
	if wantBillable != orig.Billable {
		req.Billable = &wantBillable
		changed = true
	}

	if next := api.Status(status); next != orig.Status && orig.Status.CanTransition(next) {
		req.Status = &next
		changed = true
	}

	return req, changed
}
