package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sitesync/internal/synchroniser"
)

// NewIntegrateCommand creates the integrate command.
func NewIntegrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Integrate buffered records",
		Long: `Integrate records already pulled into the sync buffer.

Use this to retry records that failed integration after the cause was
fixed. The server is not contacted.

Examples:
  sitesync integrate --db ./site.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrate(rootOpts, cmd)
		},
	}

	return cmd
}

func runIntegrate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()
	conn := st.Connection()

	pending, err := conn.PendingBufferRecords(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sync buffer", err)
	}
	formatter.VerboseLog("%d buffered record(s) pending", len(pending))

	// Integration never reaches the server.
	syncer := synchroniser.New(st, nil, nil, synchroniser.WithLogger(slog.Default()))
	if err := syncer.Integrate(ctx); err != nil {
		return reportSyncError(formatter, err)
	}

	latest, err := conn.LatestSyncLog(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sync log", err)
	}
	if latest == nil {
		return NewExitError(ExitFailure, "integrate run was not logged")
	}
	return formatter.Success(IntegrateResult{Pending: len(pending), Run: newLogEntry(*latest)})
}

// IntegrateResult reports an integrate run.
type IntegrateResult struct {
	Pending int      `json:"pending"`
	Run     LogEntry `json:"run"`
}

func (r IntegrateResult) String() string {
	return r.Run.String() + "\n" + pluralRecords(r.Pending) + " integrated"
}
