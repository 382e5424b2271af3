package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"
	naturaldate "github.com/tj/go-naturaldate"

	"github.com/wipdash/wipdash/internal/api"
	"github.com/wipdash/wipdash/internal/config"
	"github.com/wipdash/wipdash/internal/export"
	"github.com/wipdash/wipdash/internal/report"
	"github.com/wipdash/wipdash/internal/store"
	"github.com/wipdash/wipdash/internal/timeutil"
	"github.com/wipdash/wipdash/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "wipdash",
	Short: "Terminal dashboard for time logs and work in progress",
	Long:  "wipdash pulls time logs from your practice-management backend and gives you a filterable, groupable dashboard with CSV, JSON and calendar export.",
	RunE:  runDashboard,
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print time logs to the terminal",
	RunE:  runLogs,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals and the unbilled share of work",
	RunE:  runSummary,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time logs to csv, json or ics",
	RunE:  runExport,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open the config file in your editor",
	RunE:  runConfig,
}

func init() {
	for _, c := range []*cobra.Command{logsCmd, summaryCmd, exportCmd} {
		c.Flags().String("from", "", "Start date (2006-01-02 or natural language like 'last monday')")
		c.Flags().String("to", "", "End date, inclusive")
		c.Flags().String("status", "all", "Filter by status: all, notInvoiced, invoiced, paid")
	}
	logsCmd.Flags().String("group", "none", "Group rows: none, client, jobType, jobName, teamMember, timeCategory")
	summaryCmd.Flags().Bool("notify", false, "Send a desktop notification when the unbilled share crosses the configured threshold")
	exportCmd.Flags().String("format", "csv", "Export format: csv, json, ics")
	exportCmd.Flags().String("out", "", "Output file (default time-logs-<date>.<format>)")
	exportCmd.Flags().Bool("offline", false, "Export the last synced snapshot instead of fetching")

	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.API.APIKey == "" {
		return nil, fmt.Errorf("API key not configured — run 'wipdash config' or set WIPDASH_API_KEY")
	}
	return cfg, nil
}

func newAPIClient(cfg *config.Config) *api.Client {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	ttl := time.Duration(cfg.API.CacheTTLMinutes) * time.Minute
	return api.NewClient(cfg.API.APIKey, cfg.API.BaseURL, ttl, logger)
}

// dateFlag resolves a --from/--to value, accepting a plain date or a
// natural-language phrase.
func dateFlag(value string, endOfRange bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = naturaldate.Parse(value, time.Now(), naturaldate.WithDirection(naturaldate.Past))
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing date %q: %w", value, err)
		}
	}
	if endOfRange {
		return timeutil.EndOfDay(t), nil
	}
	return timeutil.StartOfDay(t), nil
}

func filtersFromFlags(cmd *cobra.Command) (report.Filters, error) {
	f := report.DefaultFilters()

	status, _ := cmd.Flags().GetString("status")
	if status != "" && status != report.All {
		if !api.Status(status).Valid() {
			return f, fmt.Errorf("unknown status %q", status)
		}
		f.Status = status
	}

	fromStr, _ := cmd.Flags().GetString("from")
	from, err := dateFlag(fromStr, false)
	if err != nil {
		return f, err
	}
	f.DateFrom = from

	toStr, _ := cmd.Flags().GetString("to")
	to, err := dateFlag(toStr, true)
	if err != nil {
		return f, err
	}
	f.DateTo = to

	return f, nil
}

// fetchAll pages through the full filtered set.
func fetchAll(ctx context.Context, client *api.Client, view *report.View) ([]api.TimeLog, error) {
	var all []api.TimeLog
	for {
		gen := view.BeginFetch()
		page, err := client.ListTimeLogs(ctx, view.Params())
		if err != nil {
			return nil, err
		}
		view.ApplyPage(gen, page)
		all = append(all, view.Logs()...)
		if !view.NextPage() {
			return all, nil
		}
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		// The dashboard works without the snapshot store.
		fmt.Fprintf(os.Stderr, "Warning: offline snapshots disabled: %v\n", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	client := newAPIClient(cfg)
	app := tui.NewApp(client, db, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	groupFlag, _ := cmd.Flags().GetString("group")
	mode := report.GroupFlat
	if groupFlag != "none" && groupFlag != "" {
		mode = report.GroupMode(groupFlag)
		found := false
		for _, m := range report.GroupModes {
			if m == mode {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown group mode %q", groupFlag)
		}
	}

	client := newAPIClient(cfg)
	view := report.NewView(cfg.Display.PageSize)
	view.SetFilters(filters)

	ctx := context.Background()
	logs, err := fetchAll(ctx, client, view)
	if err != nil {
		return fmt.Errorf("fetching time logs: %w", err)
	}

	if len(logs) == 0 {
		fmt.Println("No time logs found.")
		return nil
	}

	if mode == report.GroupFlat {
		// Chronological listing with one header per day.
		report.SortLogs(logs, report.SortSpec{Field: report.FieldDate, Direction: report.DirAsc})
		var prev time.Time
		for _, log := range logs {
			if prev.IsZero() || !timeutil.SameDay(prev, log.Date) {
				fmt.Printf("%s\n", timeutil.FormatDate(log.Date))
				prev = log.Date
			}
			printLogRow(log, cfg.Display.CurrencySymbol)
		}
	} else {
		for _, g := range report.GroupLogs(logs, mode) {
			rollup := g.Rollup()
			fmt.Printf("%s  (%s, %s)\n",
				g.Key,
				timeutil.FormatDuration(rollup.TotalDurationSecs),
				report.FormatCents(rollup.TotalAmountCents, cfg.Display.CurrencySymbol),
			)
			for _, b := range g.Buckets {
				for _, log := range b.Logs {
					printLogRow(log, cfg.Display.CurrencySymbol)
				}
			}
		}
	}

	rollup := report.Aggregate(logs)
	fmt.Printf("\nTotal: %s, %s (%d entries)\n",
		timeutil.FormatDuration(rollup.TotalDurationSecs),
		report.FormatCents(rollup.TotalAmountCents, cfg.Display.CurrencySymbol),
		rollup.EntryCount,
	)
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	client := newAPIClient(cfg)
	view := report.NewView(cfg.Display.PageSize)
	view.SetFilters(filters)

	logs, err := fetchAll(context.Background(), client, view)
	if err != nil {
		return fmt.Errorf("fetching time logs: %w", err)
	}

	rollup := report.Aggregate(logs)
	share := report.UnbilledShare(logs) * 100

	fmt.Printf("Hours:    %s (%s)\n",
		timeutil.FormatDuration(rollup.TotalDurationSecs),
		timeutil.FormatHours(rollup.TotalDurationSecs))
	fmt.Printf("Amount:   %s\n", report.FormatCents(rollup.TotalAmountCents, cfg.Display.CurrencySymbol))
	fmt.Printf("Entries:  %d\n", rollup.EntryCount)
	fmt.Printf("Clients:  %d\n", rollup.DistinctClients)
	fmt.Printf("Team:     %d\n", rollup.DistinctTeamMembers)
	fmt.Printf("Unbilled: %.1f%%\n", share)

	notify, _ := cmd.Flags().GetBool("notify")
	if notify && cfg.Notifications.Enabled && share > cfg.Notifications.WIPWarnPercent {
		msg := fmt.Sprintf("%.0f%% of tracked work is not invoiced yet", share)
		if err := beeep.Notify("wipdash: unbilled work piling up", msg, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: notification failed: %v\n", err)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv", "json", "ics":
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	offline, _ := cmd.Flags().GetBool("offline")

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logs []api.TimeLog
	if offline {
		db, err := store.Open()
		if err != nil {
			return fmt.Errorf("opening snapshot store: %w", err)
		}
		defer db.Close()

		logs, err = db.LoadSnapshot(filters.DateFrom, filters.DateTo)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		if synced, err := db.LastSyncedAt(); err == nil && !synced.IsZero() {
			fmt.Fprintf(os.Stderr, "Using snapshot from %s\n", synced.Local().Format("2006-01-02 15:04"))
		}
		logs = report.FilterLogs(logs, filters)
		if filters.StatusActive() {
			kept := logs[:0]
			for _, l := range logs {
				if string(l.Status) == filters.Status {
					kept = append(kept, l)
				}
			}
			logs = kept
		}
	} else {
		if cfg.API.APIKey == "" {
			return fmt.Errorf("API key not configured — run 'wipdash config' or use --offline")
		}
		client := newAPIClient(cfg)
		view := report.NewView(cfg.Display.PageSize)
		view.SetFilters(filters)
		logs, err = fetchAll(context.Background(), client, view)
		if err != nil {
			return fmt.Errorf("fetching time logs: %w", err)
		}
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = fmt.Sprintf("time-logs-%s.%s", time.Now().Format("2006-01-02"), format)
	}

	opts := export.Options{
		CurrencySymbol: cfg.Display.CurrencySymbol,
		Delimiter:      cfg.Export.DelimiterRune(),
		CRLF:           cfg.Export.CRLF,
	}
	switch format {
	case "csv":
		err = export.CSVToFile(out, logs, report.DefaultColumns(), opts)
	case "json":
		err = export.JSONToFile(out, logs, opts)
	case "ics":
		err = export.ICSToFile(out, logs)
	}
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d entries to %s\n", len(logs), out)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", path, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, path}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", path)
		return nil
	}
	_, err = process.Wait()
	return err
}

func printLogRow(log api.TimeLog, currency string) {
	fmt.Printf("  %s  %-20s  %-20s  %s  %10s  %s\n",
		timeutil.FormatDate(log.Date),
		trim(log.ClientName, 20),
		trim(log.JobName, 20),
		timeutil.FormatDuration(log.DurationSecs),
		report.FormatAmount(log.Amount, currency),
		log.Status.Label(),
	)
}

func trim(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
