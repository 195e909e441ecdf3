package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sitesync/internal/filetransport"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/synchroniser"
)

// TransportFlags are shared by the commands that talk to the server.
type TransportFlags struct {
	Dir       string // overrides transport.dir
	BatchSize int    // overrides sync.batch_size
}

func (f *TransportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Dir, "dir", "", "transport directory (overrides config)")
	cmd.Flags().IntVar(&f.BatchSize, "batch-size", 0, "records per pull or push batch (overrides config)")
}

// syncEnv is an open database wired to a file transport.
type syncEnv struct {
	store *store.Store
	sync  *synchroniser.Synchroniser
}

func openSyncEnv(opts *RootOptions, flags TransportFlags) (*syncEnv, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	dir := cfg.Transport.Dir
	if flags.Dir != "" {
		dir = flags.Dir
	}
	batchSize := cfg.Sync.BatchSize
	if flags.BatchSize > 0 {
		batchSize = flags.BatchSize
	}

	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	transport, err := filetransport.New(dir)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open transport", err)
	}
	slog.Debug("transport ready", "dir", dir, "batch_size", batchSize)

	return &syncEnv{
		store: st,
		sync: synchroniser.New(st, transport, transport,
			synchroniser.WithBatchSize(batchSize),
			synchroniser.WithLogger(slog.Default()),
		),
	}, nil
}

func (e *syncEnv) Close() {
	if err := e.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// openStore opens the configured database, creating it if needed.
func openStore(opts *RootOptions) (*store.Store, error) {
	path, err := opts.DatabasePath()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
