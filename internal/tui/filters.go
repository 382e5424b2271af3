package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	naturaldate "github.com/tj/go-naturaldate"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/report"
)

// filterModel drives the filter form. Entity pickers are multi-selects
// backed by the cached reference lists; date inputs accept natural
// language ("last monday", "3 days ago") as well as YYYY-MM-DD.
type filterModel struct {
	form *huh.Form

	status   *string
	billable *string
	from     *string
	to       *string

	clientIDs  *[]string
	jobIDs     *[]string
	teamIDs    *[]string
	jobTypeIDs *[]string
	purposeIDs *[]string
}

func newFilterModel() filterModel {
	return filterModel{
		status:     new(string),
		billable:   new(string),
		from:       new(string),
		to:         new(string),
		clientIDs:  new([]string),
		jobIDs:     new([]string),
		teamIDs:    new([]string),
		jobTypeIDs: new([]string),
		purposeIDs: new([]string),
	}
}

func (m *filterModel) show(current report.Filters, refs refsMsg) tea.Cmd {
	*m.status = current.Status
	if *m.status == "" {
		*m.status = report.All
	}
	*m.billable = current.Billable
	if *m.billable == "" {
		*m.billable = report.All
	}
	*m.from = formatFilterDate(current.DateFrom)
	*m.to = formatFilterDate(current.DateTo)
	*m.clientIDs = setToSlice(current.ClientIDs)
	*m.jobIDs = setToSlice(current.JobIDs)
	*m.teamIDs = setToSlice(current.TeamMemberIDs)
	*m.jobTypeIDs = setToSlice(current.JobTypeIDs)
	*m.purposeIDs = setToSlice(current.PurposeIDs)

	clientOpts := make([]huh.Option[string], len(refs.clients))
	for i, c := range refs.clients {
		clientOpts[i] = huh.NewOption(c.Name, c.ID)
	}
	jobOpts := make([]huh.Option[string], len(refs.jobs))
	for i, j := range refs.jobs {
		jobOpts[i] = huh.NewOption(j.Name, j.ID)
	}
	teamOpts := make([]huh.Option[string], len(refs.team))
	for i, u := range refs.team {
		teamOpts[i] = huh.NewOption(u.Name, u.ID)
	}
	jobTypeOpts := make([]huh.Option[string], len(refs.jobTypes))
	for i, jt := range refs.jobTypes {
		jobTypeOpts[i] = huh.NewOption(jt.Name, jt.ID)
	}
	purposeOpts := make([]huh.Option[string], len(refs.categories))
	for i, tc := range refs.categories {
		purposeOpts[i] = huh.NewOption(tc.Name, tc.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Status").
				Options(
					huh.NewOption("All", report.All),
					huh.NewOption("Not invoiced", string(api.StatusNotInvoiced)),
					huh.NewOption("Invoiced", string(api.StatusInvoiced)),
					huh.NewOption("Paid", string(api.StatusPaid)),
				).Value(m.status),
			huh.NewSelect[string]().Title("Billable").
				Options(
					huh.NewOption("All", report.All),
					huh.NewOption("Billable only", "yes"),
					huh.NewOption("Non-billable only", "no"),
				).Value(m.billable),
			huh.NewInput().Title("From date").
				Placeholder("2024-01-01 or \"last monday\"").
				Value(m.from).Validate(validateFilterDate),
			huh.NewInput().Title("To date").
				Placeholder("2024-01-31 or \"yesterday\"").
				Value(m.to).Validate(validateFilterDate),
		).Title("Range"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Clients").
				Options(clientOpts...).Value(m.clientIDs),
			huh.NewMultiSelect[string]().Title("Jobs").
				Options(jobOpts...).Value(m.jobIDs),
		).Title("Clients & jobs"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Team members").
				Options(teamOpts...).Value(m.teamIDs),
			huh.NewMultiSelect[string]().Title("Job types").
				Options(jobTypeOpts...).Value(m.jobTypeIDs),
			huh.NewMultiSelect[string]().Title("Time categories").
				Options(purposeOpts...).Value(m.purposeIDs),
		).Title("Dimensions"),
	).WithShowHelp(true).WithShowErrors(true)

	return m.form.Init()
}

// update advances the form. done reports whether the form completed; the
// caller reads result() afterwards.
func (m *filterModel) update(msg tea.Msg) (tea.Cmd, bool) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return cmd, true
	}
	return cmd, false
}

// result translates the form values into the filter state.
func (m *filterModel) result() report.Filters {
	f := report.DefaultFilters()
	f.Status = *m.status
	f.Billable = *m.billable
	f.DateFrom = parseFilterDate(*m.from, false)
	f.DateTo = parseFilterDate(*m.to, true)
	f.ClientIDs = sliceToSet(*m.clientIDs)
	f.JobIDs = sliceToSet(*m.jobIDs)
	f.TeamMemberIDs = sliceToSet(*m.teamIDs)
	f.JobTypeIDs = sliceToSet(*m.jobTypeIDs)
	f.PurposeIDs = sliceToSet(*m.purposeIDs)
	return f
}

func (m *filterModel) render() string {
	if m.form == nil {
		return ""
	}
	return titleStyle.Render("Filters") + "\n" + m.form.View()
}

func validateFilterDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return nil
	}
	if _, err := naturaldate.Parse(s, time.Now()); err == nil {
		return nil
	}
	return fmt.Errorf("not a date: %q", s)
}

// parseFilterDate resolves a form date. End-of-range dates snap to the
// end of the day so "to 2024-01-31" includes the 31st.
func parseFilterDate(s string, endOfRange bool) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = naturaldate.Parse(s, time.Now(), naturaldate.WithDirection(naturaldate.Past))
		if err != nil {
			return time.Time{}
		}
	}
	if endOfRange {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatFilterDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func sliceToSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
