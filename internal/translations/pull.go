package translations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

// TranslatePull offers rec to each translator in order and returns the first
// claimed result. It returns nil, nil when no translator claims the record.
func TranslatePull(ctx context.Context, conn *store.Connection, translators []SyncTranslation, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	op := OperationPullUpsert
	if rec.Action == domain.SyncActionDelete {
		op = OperationPullDelete
	}

	for _, t := range translators {
		var result *IntegrationRecords
		var err error
		switch rec.Action {
		case domain.SyncActionUpsert:
			result, err = t.TryTranslatePullUpsert(ctx, conn, rec)
		case domain.SyncActionDelete:
			result, err = t.TryTranslatePullDelete(ctx, conn, rec)
		default:
			return nil, &SyncTranslationError{
				Operation: op,
				TableName: rec.TableName,
				RecordID:  rec.RecordID,
				Err:       malformed(fmt.Errorf("unknown action %q", rec.Action)),
			}
		}
		if err != nil {
			return nil, &SyncTranslationError{Operation: op, TableName: rec.TableName, RecordID: rec.RecordID, Err: err}
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, nil
}

// parseLegacy decodes a buffered upsert payload into dst.
func parseLegacy(rec domain.SyncBufferRow, dst any) error {
	if rec.Data == "" {
		return malformed(fmt.Errorf("empty payload"))
	}
	if err := json.Unmarshal([]byte(rec.Data), dst); err != nil {
		return malformed(err)
	}
	return nil
}
