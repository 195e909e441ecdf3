package synchroniser

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/translations"
)

const unclaimedNote = "no translator claimed record"

// pull copies remote records into the sync buffer, one batch per
// transaction together with the cursor that follows it.
func (s *Synchroniser) pull(ctx context.Context, run *runLog, log *slog.Logger) error {
	if err := run.begin(ctx, PhasePull); err != nil {
		return err
	}
	conn := s.store.Connection()

	total := 0
	for {
		cursor, _, err := conn.GetInt(ctx, domain.SyncPullCursor)
		if err != nil {
			return err
		}
		batch, err := s.source.Pull(ctx, cursor, s.batchSize)
		if err != nil {
			return &transportError{op: "pull", err: err}
		}

		received := s.clock.Now()
		rows := make([]domain.SyncBufferRow, len(batch.Records))
		for i, r := range batch.Records {
			rows[i] = domain.SyncBufferRow{
				TableName:        r.TableName,
				RecordID:         r.RecordID,
				Action:           r.Action,
				Data:             r.Data,
				ReceivedDatetime: received,
			}
		}
		err = s.store.Transaction(ctx, func(c *store.Connection) error {
			if err := c.BufferRecords(ctx, rows); err != nil {
				return err
			}
			return c.SetInt(ctx, domain.SyncPullCursor, batch.NextCursor)
		})
		if err != nil {
			return err
		}
		total += len(rows)
		log.Debug("pulled batch", "records", len(rows), "cursor", batch.NextCursor)

		if !batch.More {
			break
		}
	}

	log.Info("pull finished", "records", total)
	return run.end(ctx, PhasePull)
}

// integrate applies every pending buffered record. Each record is translated
// and applied in its own transaction. The first failure is recorded on the
// buffered record and ends the run; records integrated before it stay
// integrated.
func (s *Synchroniser) integrate(ctx context.Context, run *runLog, log *slog.Logger) error {
	if err := run.begin(ctx, PhaseIntegration); err != nil {
		return err
	}
	conn := s.store.Connection()

	pending, err := conn.PendingBufferRecords(ctx)
	if err != nil {
		return err
	}
	SortForIntegration(pending, translations.IntegrationOrder())

	applied, skipped := 0, 0
	for _, rec := range pending {
		claimed := true
		err := s.store.Transaction(ctx, func(c *store.Connection) error {
			result, err := translations.TranslatePull(ctx, c, s.translators, rec)
			if err != nil {
				return err
			}
			var note *string
			if result == nil {
				claimed = false
				n := unclaimedNote
				note = &n
			} else if err := result.Integrate(ctx, c); err != nil {
				return err
			}
			return c.MarkIntegrated(ctx, rec.TableName, rec.RecordID, s.clock.Now(), note)
		})
		if err != nil {
			if markErr := conn.MarkIntegrationError(ctx, rec.TableName, rec.RecordID, err.Error()); markErr != nil {
				log.Error("failed to record integration error",
					"table", rec.TableName,
					"record_id", rec.RecordID,
					"error", markErr,
				)
			}
			return err
		}
		if claimed {
			applied++
		} else {
			skipped++
			log.Warn("no translator claimed buffered record",
				"table", rec.TableName,
				"record_id", rec.RecordID,
				"action", rec.Action,
			)
		}
	}

	log.Info("integration finished", "applied", applied, "skipped", skipped)
	return run.end(ctx, PhaseIntegration)
}

// SortForIntegration orders buffered records so parents are written before
// children: upserts follow order, deletes follow it in reverse and come
// after every upsert. Tables missing from order sort last within their
// group. The sort is stable, so records of one table keep their buffer
// order.
func SortForIntegration(records []domain.SyncBufferRow, order []string) {
	rank := make(map[string]int, len(order))
	for i, table := range order {
		rank[table] = i
	}
	key := func(r domain.SyncBufferRow) (int, int) {
		pos, ok := rank[r.TableName]
		if r.Action == domain.SyncActionDelete {
			if !ok {
				return 1, len(order)
			}
			return 1, len(order) - 1 - pos
		}
		if !ok {
			return 0, len(order)
		}
		return 0, pos
	}
	slices.SortStableFunc(records, func(a, b domain.SyncBufferRow) int {
		ga, pa := key(a)
		gb, pb := key(b)
		if ga != gb {
			return ga - gb
		}
		return pa - pb
	})
}
