package translations

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/testutil"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func upsertRecord(table, id, data string) domain.SyncBufferRow {
	return domain.SyncBufferRow{
		TableName:        table,
		RecordID:         id,
		Action:           domain.SyncActionUpsert,
		Data:             data,
		ReceivedDatetime: testutil.DefaultEpoch,
	}
}

func deleteRecord(table, id string) domain.SyncBufferRow {
	return domain.SyncBufferRow{
		TableName:        table,
		RecordID:         id,
		Action:           domain.SyncActionDelete,
		ReceivedDatetime: testutil.DefaultEpoch,
	}
}

func mockConn(t *testing.T) *store.Connection {
	t.Helper()
	return testutil.NewMockStore(t).Connection()
}

// fakeTranslator claims nothing unless the matching func is set and counts
// every call it receives.
type fakeTranslator struct {
	pullUpsert func(domain.SyncBufferRow) (*IntegrationRecords, error)
	push       func(domain.ChangelogRow) ([]PushRecord, error)

	calls int
}

func (f *fakeTranslator) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	f.calls++
	if f.pullUpsert == nil {
		return nil, nil
	}
	return f.pullUpsert(rec)
}

func (f *fakeTranslator) TryTranslatePullDelete(context.Context, *store.Connection, domain.SyncBufferRow) (*IntegrationRecords, error) {
	f.calls++
	return nil, nil
}

func (f *fakeTranslator) TryTranslatePush(_ context.Context, _ *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	f.calls++
	if f.push == nil {
		return nil, nil
	}
	return f.push(entry)
}
