package cli

import (
	"github.com/spf13/cobra"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	TransportFlags
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync",
		Long: `Run one sync against the transport directory.

The first sync fetches the site identity and pulls the site's full data set;
later syncs push local changes before pulling.

Exit codes:
  0 - Sync finished
  1 - Sync failed (details in the sync log)
  2 - Command error (database or transport cannot be opened)

Examples:
  sitesync sync --db ./site.db --dir ./sync
  sitesync sync --config ./sitesync.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}
	opts.TransportFlags.register(cmd)

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	env, err := openSyncEnv(opts.RootOptions, opts.TransportFlags)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.sync.Sync(ctx); err != nil {
		return reportSyncError(formatter, err)
	}

	latest, err := env.store.Connection().LatestSyncLog(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sync log", err)
	}
	if latest == nil {
		return formatter.Success("sync finished")
	}
	return formatter.Success(newLogEntry(*latest))
}
