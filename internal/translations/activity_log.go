package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyActivityLogRow struct {
	ID       string `json:"ID"`
	Type     string `json:"type"`
	UserID   string `json:"user_ID"`
	StoreID  string `json:"store_ID"`
	RecordID string `json:"record_ID"`
	Date     string `json:"date"`
	Time     int64  `json:"time"`
}

// ActivityLogTranslation has no pull delete; activity log entries are never
// removed.
type ActivityLogTranslation struct{ noTranslation }

func (ActivityLogTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableActivityLog {
		return nil, nil
	}
	var data LegacyActivityLogRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	logType, err := activityLogTypes.pull(data.Type)
	if err != nil {
		return nil, err
	}
	datetime, err := legacy.ParseDateTime(data.Date, data.Time)
	if err != nil {
		return nil, malformed(err)
	}
	return FromUpsert(domain.ActivityLogRow{
		ID:       data.ID,
		Type:     logType,
		UserID:   legacy.OptionalString(data.UserID),
		StoreID:  legacy.OptionalString(data.StoreID),
		RecordID: legacy.OptionalString(data.RecordID),
		Datetime: datetime,
	}), nil
}

func (ActivityLogTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableActivityLog {
		return nil, nil
	}
	row, err := store.FindByID[domain.ActivityLogRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	logType, err := activityLogTypes.push(row.Type)
	if err != nil {
		return nil, err
	}
	date, seconds := legacy.FormatDateTime(row.Datetime)
	return pushUpsert(entry, legacy.TableActivityLog, LegacyActivityLogRow{
		ID:       row.ID,
		Type:     logType,
		UserID:   legacy.StringValue(row.UserID),
		StoreID:  legacy.StringValue(row.StoreID),
		RecordID: legacy.StringValue(row.RecordID),
		Date:     date,
		Time:     seconds,
	})
}
