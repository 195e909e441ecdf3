package translations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

// TranslateChangelog turns one changelog entry into push records.
//
// Deletes map directly to a single legacy delete. Upserts go to the first
// translator that returns a non-empty result. An entry nobody claims, or one
// whose parent chain cannot be resolved, is logged to log and yields no
// records.
func TranslateChangelog(ctx context.Context, conn *store.Connection, log *slog.Logger, translators []SyncTranslation, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.RowAction == domain.RowActionDelete {
		tableName, ok := legacy.TableNameFor(entry.TableName)
		if !ok {
			return nil, &SyncTranslationError{
				Operation: OperationPush,
				TableName: string(entry.TableName),
				RecordID:  entry.RecordID,
				Err:       fmt.Errorf("no legacy table for %s", entry.TableName),
			}
		}
		return []PushRecord{{
			Action:    PushActionDelete,
			Cursor:    entry.Cursor,
			TableName: tableName,
			RecordID:  entry.RecordID,
		}}, nil
	}

	for _, t := range translators {
		records, err := t.TryTranslatePush(ctx, conn, entry)
		if errors.Is(err, ErrParentRecordNotFound) {
			log.Warn("skipping changelog entry with unresolved parent",
				"table", entry.TableName,
				"record_id", entry.RecordID,
				"cursor", entry.Cursor,
				"error", err,
			)
			return nil, nil
		}
		if err != nil {
			return nil, &SyncTranslationError{
				Operation: OperationPush,
				TableName: string(entry.TableName),
				RecordID:  entry.RecordID,
				Err:       err,
			}
		}
		if len(records) > 0 {
			for i := range records {
				records[i].Cursor = entry.Cursor
			}
			return records, nil
		}
	}

	log.Warn("no translator claimed changelog entry",
		"table", entry.TableName,
		"record_id", entry.RecordID,
		"cursor", entry.Cursor,
	)
	return nil, nil
}

// PushBatch is the translation of a run of changelog entries.
type PushBatch struct {
	Records []PushRecord
	// HighWaterMark is the cursor of the last entry translated. Callers
	// persist it only after Records were handed off.
	HighWaterMark int64
}

// TranslateChangelogBatch translates entries in order. Entries must be in
// non-decreasing cursor order. On error no records are returned, so the
// caller's cursor does not advance past an entry that was not pushed.
func TranslateChangelogBatch(ctx context.Context, conn *store.Connection, log *slog.Logger, translators []SyncTranslation, entries []domain.ChangelogRow) (PushBatch, error) {
	var batch PushBatch
	for i, entry := range entries {
		if i > 0 && entry.Cursor < batch.HighWaterMark {
			return PushBatch{}, fmt.Errorf("changelog out of order: cursor %d after %d", entry.Cursor, batch.HighWaterMark)
		}
		records, err := TranslateChangelog(ctx, conn, log, translators, entry)
		if err != nil {
			return PushBatch{}, err
		}
		batch.Records = append(batch.Records, records...)
		batch.HighWaterMark = entry.Cursor
	}
	return batch, nil
}

// pushUpsert encodes doc as a single legacy upsert for entry.
func pushUpsert(entry domain.ChangelogRow, tableName string, doc any) ([]PushRecord, error) {
	data, err := legacy.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return []PushRecord{{
		Action:    PushActionUpsert,
		Cursor:    entry.Cursor,
		TableName: tableName,
		RecordID:  entry.RecordID,
		Data:      data,
	}}, nil
}
