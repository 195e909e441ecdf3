package synchroniser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/translations"
)

// DefaultBatchSize is the number of records pulled or pushed per request.
const DefaultBatchSize = 500

// Synchroniser runs sync passes against one local store.
//
// The translator list is copied at construction and its order never
// changes; pull and push dispatch depend on it.
type Synchroniser struct {
	store  *store.Store
	source RemoteSource
	sink   PushSink

	clock       Clock
	ids         IDGenerator
	translators []translations.SyncTranslation
	batchSize   int
	log         *slog.Logger

	mu sync.Mutex
}

// Option configures a Synchroniser.
type Option func(*Synchroniser)

// WithClock sets the clock used for sync log and buffer timestamps.
func WithClock(c Clock) Option {
	return func(s *Synchroniser) { s.clock = c }
}

// WithIDGenerator sets the sync log id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Synchroniser) { s.ids = g }
}

// WithTranslators replaces the translator registry.
func WithTranslators(t []translations.SyncTranslation) Option {
	return func(s *Synchroniser) {
		s.translators = append([]translations.SyncTranslation(nil), t...)
	}
}

// WithBatchSize sets the pull and push batch size. Values below 1 are
// ignored.
func WithBatchSize(n int) Option {
	return func(s *Synchroniser) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchroniser) { s.log = l }
}

// New creates a Synchroniser. Defaults: system clock, UUIDv7 ids, the full
// translator registry and DefaultBatchSize.
func New(st *store.Store, source RemoteSource, sink PushSink, opts ...Option) *Synchroniser {
	s := &Synchroniser{
		store:       st,
		source:      source,
		sink:        sink,
		clock:       SystemClock{},
		ids:         UUIDv7Generator{},
		translators: translations.AllTranslators(),
		batchSize:   DefaultBatchSize,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync performs one run and records it in the sync log. It returns
// ErrSyncInProgress without waiting when another run is active, and a
// *SyncError when the run fails.
func (s *Synchroniser) Sync(ctx context.Context) error {
	return s.track(ctx, s.sync)
}

// Integrate applies records already in the sync buffer without contacting
// the server. It is logged and locked like Sync.
func (s *Synchroniser) Integrate(ctx context.Context) error {
	return s.track(ctx, s.integrate)
}

// track runs fn under the run lock with a fresh sync log row.
func (s *Synchroniser) track(ctx context.Context, fn func(context.Context, *runLog, *slog.Logger) error) error {
	if !s.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer s.mu.Unlock()

	run := &runLog{
		conn:  s.store.Connection(),
		now:   s.clock.Now,
		row:   domain.SyncLogRow{ID: s.ids.Generate(), StartedDatetime: s.clock.Now()},
		phase: PhasePrepare,
	}
	if err := run.save(ctx); err != nil {
		return newSyncError(PhasePrepare, err)
	}
	log := s.log.With("sync_id", run.row.ID)
	log.Info("sync started")

	if err := fn(ctx, run, log); err != nil {
		se := newSyncError(run.phase, err)
		code, msg := string(se.Code), se.Error()
		run.row.ErrorCode = &code
		run.row.ErrorMessage = &msg
		if saveErr := run.save(context.WithoutCancel(ctx)); saveErr != nil {
			log.Error("failed to record sync error", "error", saveErr)
		}
		log.Error("sync failed", "code", se.Code, "phase", se.Phase, "error", se.Err)
		return se
	}

	done := s.clock.Now()
	run.row.DoneDatetime = &done
	if err := run.save(ctx); err != nil {
		return newSyncError(run.phase, err)
	}
	if d, ok := run.row.Duration(); ok {
		log.Info("sync finished", "duration", d)
	}
	return nil
}

func (s *Synchroniser) sync(ctx context.Context, run *runLog, log *slog.Logger) error {
	conn := s.store.Connection()

	initialised, err := conn.IsInitialised(ctx)
	if err != nil {
		return err
	}
	if !initialised {
		if err := run.begin(ctx, PhasePrepare); err != nil {
			return err
		}
	}
	if err := s.ensureSiteInfo(ctx, log); err != nil {
		return err
	}

	// Local changes go up before remote changes are applied, once the site
	// holds a full copy of its data.
	if initialised {
		if err := s.push(ctx, run, log); err != nil {
			return err
		}
	}
	if err := s.pull(ctx, run, log); err != nil {
		return err
	}
	if err := s.integrate(ctx, run, log); err != nil {
		return err
	}
	if !initialised {
		if err := run.end(ctx, PhasePrepare); err != nil {
			return err
		}
		if err := s.push(ctx, run, log); err != nil {
			return err
		}
	}
	return nil
}

// ensureSiteInfo fetches and stores the site identity on first use.
func (s *Synchroniser) ensureSiteInfo(ctx context.Context, log *slog.Logger) error {
	conn := s.store.Connection()
	if _, ok, err := conn.SiteID(ctx); err != nil || ok {
		return err
	}

	info, err := s.source.SiteInfo(ctx)
	if err != nil {
		return &transportError{op: "fetch site info", err: err}
	}
	err = s.store.Transaction(ctx, func(c *store.Connection) error {
		if err := c.SetInt(ctx, domain.SettingsSyncSiteID, int64(info.SiteID)); err != nil {
			return err
		}
		return c.SetString(ctx, domain.SettingsSyncSiteUUID, info.SiteUUID)
	})
	if err != nil {
		return err
	}
	log.Info("site info stored", "site_id", info.SiteID, "site_uuid", info.SiteUUID)
	return nil
}

// Run calls Sync immediately and then on every tick of interval until ctx is
// cancelled. Failed runs are logged and retried on the next tick.
func (s *Synchroniser) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Sync(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Other failures were already logged by track as "sync failed".
			if errors.Is(err, ErrSyncInProgress) {
				s.log.Warn("skipping sync tick", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			s.log.Info("sync loop stopping: context cancelled")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
