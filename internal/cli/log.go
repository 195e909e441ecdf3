package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	ID      string // optional - show one run
	Limit   int
	Oldest  bool // oldest first instead of newest first
	Initial bool // only runs that completed the initial pull
}

// LogEntry is one sync run as shown by the CLI.
type LogEntry struct {
	ID           string       `json:"id"`
	Started      time.Time    `json:"started"`
	Done         *time.Time   `json:"done,omitempty"`
	DurationMS   *int64       `json:"duration_ms,omitempty"`
	Phases       []PhaseEntry `json:"phases"`
	ErrorCode    string       `json:"error_code,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// PhaseEntry is the timing of one phase of a run.
type PhaseEntry struct {
	Name    string     `json:"name"`
	Started time.Time  `json:"started"`
	Done    *time.Time `json:"done,omitempty"`
}

// LogResult holds the log command output.
type LogResult struct {
	Runs []LogEntry `json:"runs"`
}

func newLogEntry(r domain.SyncLogRow) LogEntry {
	e := LogEntry{
		ID:      r.ID,
		Started: r.StartedDatetime,
		Done:    r.DoneDatetime,
		Phases:  []PhaseEntry{},
	}
	if d, ok := r.Duration(); ok {
		ms := d.Milliseconds()
		e.DurationMS = &ms
	}
	if r.ErrorCode != nil {
		e.ErrorCode = *r.ErrorCode
	}
	if r.ErrorMessage != nil {
		e.ErrorMessage = *r.ErrorMessage
	}

	phases := []struct {
		name          string
		started, done *time.Time
	}{
		{"prepare_initial", r.PrepareInitialStartedDatetime, r.PrepareInitialDoneDatetime},
		{"push", r.PushStartedDatetime, r.PushDoneDatetime},
		{"pull", r.PullStartedDatetime, r.PullDoneDatetime},
		{"integration", r.IntegrationStartedDatetime, r.IntegrationDoneDatetime},
	}
	for _, p := range phases {
		if p.started == nil {
			continue
		}
		e.Phases = append(e.Phases, PhaseEntry{Name: p.name, Started: *p.started, Done: p.done})
	}
	return e
}

// String renders the entry as one summary line.
func (e LogEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  ", e.ID, e.Started.Format(time.RFC3339))
	switch {
	case e.ErrorCode != "":
		fmt.Fprintf(&b, "failed %s: %s", e.ErrorCode, e.ErrorMessage)
	case e.DurationMS != nil:
		fmt.Fprintf(&b, "done in %s", time.Duration(*e.DurationMS)*time.Millisecond)
	default:
		b.WriteString("running")
	}

	names := make([]string, 0, len(e.Phases))
	for _, p := range e.Phases {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(names, " "))
	}
	return b.String()
}

func pluralRecords(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show sync runs",
		Long: `Show recorded sync runs, newest first.

Each run lists the phases it started and, for failed runs, the error
code and message.

Examples:
  sitesync log --db ./site.db
  sitesync log --db ./site.db --limit 5 --format json
  sitesync log --db ./site.db --id 01927c9e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.Oldest, "oldest", false, "show oldest runs first")
	cmd.Flags().BoolVar(&opts.Initial, "initial", false, "only runs that completed the initial pull")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	var filter store.SyncLogFilter
	if opts.ID != "" {
		filter.ID = &opts.ID
	}
	if opts.Initial {
		isNull := false
		filter.PrepareInitialDoneDatetime = &store.DatetimeFilter{IsNull: &isNull}
	}
	sort := &store.SyncLogSort{Field: store.SyncLogSortStarted, Desc: !opts.Oldest}

	rows, err := st.Connection().SyncLogs(ctx, filter, sort, store.Pagination{Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query sync log", err)
	}

	if opts.ID != "" && len(rows) == 0 {
		if err := formatter.Error(ErrCodeNotFound, fmt.Sprintf("no sync run with id %s", opts.ID), nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("no sync run with id %s", opts.ID))
	}

	result := LogResult{Runs: make([]LogEntry, 0, len(rows))}
	for _, r := range rows {
		result.Runs = append(result.Runs, newLogEntry(r))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No sync runs recorded.")
		return nil
	}
	for _, e := range result.Runs {
		fmt.Fprintln(w, e.String())
	}
	return nil
}
