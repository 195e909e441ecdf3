package domain

import "time"

// SyncAction is the action carried by a buffered inbound record.
type SyncAction string

const (
	SyncActionUpsert SyncAction = "upsert"
	SyncActionDelete SyncAction = "delete"
)

// SyncBufferRow is an inbound legacy record staged for integration.
// Buffered records are keyed by (TableName, RecordID); a retransmission
// replaces the buffered copy and clears its integration state.
type SyncBufferRow struct {
	TableName           string
	RecordID            string
	Action              SyncAction
	Data                string
	ReceivedDatetime    time.Time
	IntegrationDatetime *time.Time
	IntegrationError    *string
}

// RowAction is the action recorded in the changelog.
type RowAction string

const (
	RowActionUpsert RowAction = "upsert"
	RowActionDelete RowAction = "delete"
)

// ChangelogRow is one mutating write to a changelog table. Cursor values are
// assigned by storage, strictly increase and are never reused.
type ChangelogRow struct {
	Cursor       int64
	TableName    Table
	RecordID     string
	RowAction    RowAction
	IsSyncUpdate bool
}

// SyncLogRow records one sync attempt. Rows are never deleted.
type SyncLogRow struct {
	ID                            string
	StartedDatetime               time.Time
	DoneDatetime                  *time.Time
	PrepareInitialStartedDatetime *time.Time
	PrepareInitialDoneDatetime    *time.Time
	PushStartedDatetime           *time.Time
	PushDoneDatetime              *time.Time
	PullStartedDatetime           *time.Time
	PullDoneDatetime              *time.Time
	IntegrationStartedDatetime    *time.Time
	IntegrationDoneDatetime       *time.Time
	ErrorMessage                  *string
	ErrorCode                     *string
}

// Duration returns how long a finished run took.
func (r SyncLogRow) Duration() (time.Duration, bool) {
	if r.DoneDatetime == nil {
		return 0, false
	}
	return r.DoneDatetime.Sub(r.StartedDatetime), true
}

// KeyValueType names a persisted setting.
type KeyValueType string

const (
	SettingsSyncSiteID   KeyValueType = "settings_sync_site_id"
	SettingsSyncSiteUUID KeyValueType = "settings_sync_site_uuid"
	SyncPullCursor       KeyValueType = "sync_pull_cursor"
	SyncPushCursor       KeyValueType = "sync_push_cursor"
)
