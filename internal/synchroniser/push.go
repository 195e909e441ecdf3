package synchroniser

import (
	"context"
	"log/slog"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/translations"
)

// push sends local changes in cursor order. The push cursor is stored only
// after the sink accepted a batch, so a failed push is retried from the same
// entries on the next run.
func (s *Synchroniser) push(ctx context.Context, run *runLog, log *slog.Logger) error {
	if err := run.begin(ctx, PhasePush); err != nil {
		return err
	}
	conn := s.store.Connection()

	total := 0
	for {
		after, _, err := conn.GetInt(ctx, domain.SyncPushCursor)
		if err != nil {
			return err
		}
		entries, err := conn.Changelogs(ctx, after, s.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		batch, err := translations.TranslateChangelogBatch(ctx, conn, log, s.translators, entries)
		if err != nil {
			return err
		}
		if len(batch.Records) > 0 {
			if err := s.sink.Push(ctx, batch.Records); err != nil {
				return &transportError{op: "push", err: err}
			}
		}
		if err := conn.SetInt(ctx, domain.SyncPushCursor, batch.HighWaterMark); err != nil {
			return err
		}
		total += len(batch.Records)
		log.Debug("pushed batch", "records", len(batch.Records), "cursor", batch.HighWaterMark)

		if len(entries) < s.batchSize {
			break
		}
	}

	log.Info("push finished", "records", total)
	return run.end(ctx, PhasePush)
}
