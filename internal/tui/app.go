package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/config"
	"github.com/wipdash/wipdash/internal/export"
	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/store"
)

var exportFormats = []string{"csv", "json", "ics"}

// App is the root dashboard model. It owns the view state and hands each
// screen its slice of it.
type App struct {
	client *api.Client
	db     *store.DB
	cfg    *config.Config

	state viewState
	view  *report.View

	logs    logsModel
	summary summaryModel
	filters filterModel
	columns columnsModel
	edit    editModel

	spinner spinner.Model
	help    help.Model

	refs     refsMsg
	refsOK   bool
	sortCol  int
	exportAt int

	deleteTarget     api.TimeLog
	mutationInFlight bool

	status    string
	statusErr bool

	width  int
	height int
}

// NewApp wires the dashboard against the API client and the optional
// offline snapshot store (nil disables snapshots).
func NewApp(client *api.Client, db *store.DB, cfg *config.Config) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	view := report.NewView(cfg.Display.PageSize)
	return &App{
		client:  client,
		db:      db,
		cfg:     cfg,
		state:   logsView,
		view:    view,
		logs:    newLogsModel(view, cfg.Display.CurrencySymbol),
		summary: newSummaryModel(view, cfg.Display.CurrencySymbol, cfg.Notifications.WIPWarnPercent),
		filters: newFilterModel(),
		columns: newColumnsModel(view.Columns),
		edit:    newEditModel(),
		spinner: s,
		help:    help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.fetchCmd(), a.loadRefsCmd())
}

// fetchCmd requests the current page, tagged with the view's generation
// so a response overtaken by a newer request is dropped on arrival.
func (a *App) fetchCmd() tea.Cmd {
	gen := a.view.BeginFetch()
	params := a.view.Params()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		page, err := a.client.ListTimeLogs(ctx, params)
		return logsMsg{gen: gen, page: page, err: err}
	}
}

func (a *App) loadRefsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var msg refsMsg
		var err error
		if msg.clients, err = a.client.ListClients(ctx); err != nil {
			msg.err = err
			return msg
		}
		if msg.jobs, err = a.client.ListJobs(ctx); err != nil {
			msg.err = err
			return msg
		}
		if msg.team, err = a.client.ListTeamMembers(ctx); err != nil {
			msg.err = err
			return msg
		}
		if msg.jobTypes, err = a.client.ListJobTypes(ctx); err != nil {
			msg.err = err
			return msg
		}
		msg.categories, msg.err = a.client.ListTimeCategories(ctx)
		return msg
	}
}

func (a *App) deleteCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := a.client.DeleteTimeLogs(ctx, ids)
		return deletedMsg{ids: ids, err: err}
	}
}

func (a *App) updateCmd(id string, req api.UpdateTimeLogRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log, err := a.client.UpdateTimeLog(ctx, id, req)
		return updatedMsg{log: log, err: err}
	}
}

func (a *App) exportCmd(format string) tea.Cmd {
	logs := a.view.Logs()
	cols := a.view.Columns
	opts := export.Options{
		CurrencySymbol: a.cfg.Display.CurrencySymbol,
		Delimiter:      a.cfg.Export.DelimiterRune(),
		CRLF:           a.cfg.Export.CRLF,
	}
	path := filepath.Join(".", fmt.Sprintf("time-logs-%s.%s", time.Now().Format("2006-01-02-150405"), format))

	return func() tea.Msg {
		var err error
		switch format {
		case "csv":
			err = export.CSVToFile(path, logs, cols, opts)
		case "json":
			err = export.JSONToFile(path, logs, opts)
		case "ics":
			err = export.ICSToFile(path, logs)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (a *App) snapshotCmd() tea.Cmd {
	if a.db == nil {
		return nil
	}
	logs := a.view.Logs()
	return func() tea.Msg {
		return snapshotSavedMsg{err: a.db.SaveSnapshot(logs)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.logs.setSize(msg.Width, msg.Height)
		a.summary.setSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case logsMsg:
		if msg.err != nil {
			if a.view.ApplyError(msg.gen, msg.err) {
				a.setStatus("fetch failed: "+msg.err.Error(), true)
			}
			return a, nil
		}
		if !a.view.ApplyPage(msg.gen, msg.page) {
			return a, nil
		}
		a.logs.rebuild()
		a.summary.rebuild()
		return a, a.snapshotCmd()

	case refsMsg:
		if msg.err != nil {
			a.setStatus("reference data unavailable: "+msg.err.Error(), true)
			return a, nil
		}
		a.refs = msg
		a.refsOK = true
		return a, nil

	case deletedMsg:
		a.mutationInFlight = false
		if msg.err != nil {
			a.setStatus("delete failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("deleted %d entries", len(msg.ids)), false)
		return a, a.fetchCmd()

	case updatedMsg:
		a.mutationInFlight = false
		if msg.err != nil {
			a.setStatus("update failed: "+msg.err.Error(), true)
			return a, nil
		}
		a.setStatus("entry updated", false)
		return a, a.fetchCmd()

	case exportDoneMsg:
		if msg.err != nil {
			a.setStatus("export failed: "+msg.err.Error(), true)
		} else {
			a.setStatus("exported to "+msg.path, false)
		}
		a.state = logsView
		return a, nil

	case snapshotSavedMsg:
		if msg.err != nil {
			a.setStatus("snapshot not saved: "+msg.err.Error(), true)
		}
		return a, nil
	}

	switch a.state {
	case logsView, summaryView:
		return a.updateMain(msg)
	case filterView:
		return a.updateFilters(msg)
	case columnsView:
		return a.updateColumns(msg)
	case editView:
		return a.updateEdit(msg)
	case exportPickView:
		return a.updateExportPick(msg)
	case confirmDeleteView:
		return a.updateConfirmDelete(msg)
	}
	return a, nil
}

func (a *App) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return a, tea.Quit

	case key.Matches(keyMsg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(keyMsg, keys.Summary):
		if a.state == summaryView {
			a.state = logsView
		} else {
			a.state = summaryView
			a.summary.rebuild()
		}
		return a, nil

	case key.Matches(keyMsg, keys.Refresh):
		a.client.InvalidateCache()
		return a, tea.Batch(a.fetchCmd(), a.loadRefsCmd())

	case key.Matches(keyMsg, keys.NextPage):
		if a.view.NextPage() {
			return a, a.fetchCmd()
		}
		return a, nil

	case key.Matches(keyMsg, keys.PrevPage):
		if a.view.PrevPage() {
			return a, a.fetchCmd()
		}
		return a, nil

	case key.Matches(keyMsg, keys.Up):
		a.logs.moveCursor(-1)
		return a, nil

	case key.Matches(keyMsg, keys.Down):
		a.logs.moveCursor(1)
		return a, nil

	case key.Matches(keyMsg, keys.Left):
		a.moveSortCol(-1)
		return a, nil

	case key.Matches(keyMsg, keys.Right):
		a.moveSortCol(1)
		return a, nil

	case key.Matches(keyMsg, keys.Sort):
		visible := a.view.Columns.VisibleOrdered()
		if len(visible) > 0 {
			a.sortCol = clamp(a.sortCol, 0, len(visible)-1)
			a.view.ToggleSort(sortFieldFor(visible[a.sortCol].ID))
			a.logs.rebuild()
		}
		return a, nil

	case key.Matches(keyMsg, keys.Group):
		a.view.Mode = nextGroupMode(a.view.Mode)
		a.logs.rebuild()
		return a, nil

	case key.Matches(keyMsg, keys.Filter):
		a.state = filterView
		return a, a.filters.show(a.view.Filters, a.refs)

	case key.Matches(keyMsg, keys.Columns):
		a.state = columnsView
		return a, nil

	case key.Matches(keyMsg, keys.Export):
		a.state = exportPickView
		a.exportAt = 0
		return a, nil

	case key.Matches(keyMsg, keys.Edit):
		if a.mutationInFlight {
			return a, nil
		}
		if log, ok := a.logs.selected(); ok {
			a.state = editView
			return a, a.edit.show(log)
		}
		return a, nil

	case key.Matches(keyMsg, keys.Delete):
		if a.mutationInFlight {
			return a, nil
		}
		if log, ok := a.logs.selected(); ok {
			a.deleteTarget = log
			a.state = confirmDeleteView
		}
		return a, nil
	}
	return a, nil
}

func (a *App) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		a.state = logsView
		return a, nil
	}

	cmd, done := a.edit.update(msg)
	if done {
		a.state = logsView
		req, changed := a.edit.result()
		if !changed {
			return a, nil
		}
		a.mutationInFlight = true
		return a, a.updateCmd(a.edit.orig.ID, req)
	}
	return a, cmd
}

func (a *App) updateFilters(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		a.state = logsView
		return a, nil
	}

	cmd, done := a.filters.update(msg)
	if done {
		a.view.SetFilters(a.filters.result())
		a.state = logsView
		return a, a.fetchCmd()
	}
	return a, cmd
}

func (a *App) updateColumns(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "esc", "c", "q":
		a.state = logsView
		a.logs.rebuild()
	case "up", "k":
		a.columns.moveCursor(-1)
	case "down", "j":
		a.columns.moveCursor(1)
	case " ":
		a.columns.toggle()
	case "[":
		a.columns.shift(-1)
	case "]":
		a.columns.shift(1)
	}
	return a, nil
}

func (a *App) updateExportPick(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		a.state = logsView
	case "up", "k":
		a.exportAt = clamp(a.exportAt-1, 0, len(exportFormats)-1)
	case "down", "j":
		a.exportAt = clamp(a.exportAt+1, 0, len(exportFormats)-1)
	case "enter":
		return a, a.exportCmd(exportFormats[a.exportAt])
	}
	return a, nil
}

func (a *App) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "y", "enter":
		a.state = logsView
		a.mutationInFlight = true
		return a, a.deleteCmd([]string{a.deleteTarget.ID})
	case "n", "esc":
		a.state = logsView
	}
	return a, nil
}

func (a *App) moveSortCol(delta int) {
	visible := a.view.Columns.VisibleOrdered()
	if len(visible) == 0 {
		return
	}
	a.sortCol = clamp(a.sortCol+delta, 0, len(visible)-1)
}

func nextGroupMode(mode report.GroupMode) report.GroupMode {
	for i, m := range report.GroupModes {
		if m == mode {
			return report.GroupModes[(i+1)%len(report.GroupModes)]
		}
	}
	return report.GroupFlat
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

func (a *App) View() string {
	switch a.state {
	case filterView:
		return a.filters.render()
	case columnsView:
		return a.columns.render()
	case editView:
		return a.edit.render()
	case exportPickView:
		return a.exportPickViewRender()
	case confirmDeleteView:
		return a.confirmDeleteRender()
	case summaryView:
		return a.summary.render() + "\n" + a.footer()
	}
	return a.mainRender()
}

func (a *App) mainRender() string {
	header := titleStyle.Render("wipdash") + "  " +
		groupStyle.Render(a.view.Mode.Label())
	if a.view.Filters.AnyActive() {
		header += "  " + highlightStyle.Render("● filtered")
	}
	if a.view.State() == report.FetchLoading {
		header += "  " + a.spinner.View()
	}

	return header + "\n\n" + a.logs.render() + "\n" + a.footer()
}

func (a *App) exportPickViewRender() string {
	s := titleStyle.Render("Export") + "\n"
	for i, f := range exportFormats {
		line := "  " + f
		if i == a.exportAt {
			line = selectedStyle.Render("> " + f)
		}
		s += line + "\n"
	}
	s += helpStyle.Render("enter export · esc back")
	return s
}

func (a *App) confirmDeleteRender() string {
	return warningStyle.Render("Delete this entry?") + "\n\n" +
		fmt.Sprintf("  %s  %s  %s\n\n",
			a.deleteTarget.ClientName,
			a.deleteTarget.JobName,
			a.deleteTarget.Description) +
		helpStyle.Render("y confirm · n cancel")
}

func (a *App) footer() string {
	line := a.help.View(keys)
	if a.status != "" {
		style := successStyle
		if a.statusErr {
			style = errorStyle
		}
		line = style.Render(a.status) + "\n" + line
	}
	return line
}
