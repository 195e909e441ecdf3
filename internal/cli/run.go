package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	TransportFlags
	Interval time.Duration // overrides sync.interval
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync on a schedule",
		Long: `Sync immediately and then on every interval until interrupted.

A failed run is recorded in the sync log and retried on the next tick.

Example:
  sitesync run --db ./site.db --dir ./sync --interval 1m
  sitesync run --config ./sitesync.cue --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(opts, cmd)
		},
	}
	opts.TransportFlags.register(cmd)
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "time between syncs (overrides config)")

	return cmd
}

func runScheduler(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	interval := cfg.Sync.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}

	env, err := openSyncEnv(opts.RootOptions, opts.TransportFlags)
	if err != nil {
		return err
	}
	defer env.Close()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	slog.Info("scheduler starting", "interval", interval)
	fmt.Fprintf(cmd.OutOrStdout(), "Syncing every %s.\n", interval)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	err = env.sync.Run(ctx, interval)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "scheduler error", err)
	}

	slog.Info("scheduler stopped gracefully")
	return nil
}
