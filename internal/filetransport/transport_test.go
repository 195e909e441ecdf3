package filetransport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/synchroniser"
	"github.com/roach88/sitesync/internal/translations"
)

func newTransport(t *testing.T) (*Transport, string) {
	t.Helper()
	dir := t.TempDir()
	tr, err := New(dir)
	require.NoError(t, err)
	return tr, dir
}

func writeInbox(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, InboxDir, name), []byte(content), 0o644))
}

func TestSiteInfo_RoundTrip(t *testing.T) {
	tr, _ := newTransport(t)
	ctx := context.Background()

	_, err := tr.SiteInfo(ctx)
	require.Error(t, err)

	require.NoError(t, tr.WriteSiteInfo(synchroniser.SiteInfo{SiteID: 4, SiteUUID: "abc"}))
	info, err := tr.SiteInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, synchroniser.SiteInfo{SiteID: 4, SiteUUID: "abc"}, info)
}

func TestSiteInfo_RejectsUnknownFields(t *testing.T) {
	tr, dir := newTransport(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SiteInfoFile), []byte("site_id: 1\nsiteuuid: x\n"), 0o644))

	_, err := tr.SiteInfo(context.Background())
	assert.Error(t, err)
}

func TestPull_ReadsFilesInNameOrder(t *testing.T) {
	tr, dir := newTransport(t)
	ctx := context.Background()

	writeInbox(t, dir, "0002.yaml", `
records:
  - table_name: name_tag
    record_id: nt1
    action: upsert
    data:
      ID: nt1
      description: Tag
  - table_name: Location
    record_id: loc1
    action: delete
`)
	writeInbox(t, dir, "0001.json", `{"records":[
		{"table_name":"unit","record_id":"u1","action":"upsert","data":{"ID":"u1","units":"Tab","order_number":2}}
	]}`)
	writeInbox(t, dir, "README.txt", "ignored")

	batch, err := tr.Pull(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.True(t, batch.More)
	assert.Equal(t, int64(2), batch.NextCursor)
	assert.Equal(t, synchroniser.RemoteRecord{
		TableName: "unit",
		RecordID:  "u1",
		Action:    domain.SyncActionUpsert,
		Data:      `{"ID":"u1","units":"Tab","order_number":2}`,
	}, batch.Records[0])
	assert.JSONEq(t, `{"ID":"nt1","description":"Tag"}`, batch.Records[1].Data)

	batch, err = tr.Pull(ctx, batch.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.False(t, batch.More)
	assert.Equal(t, int64(3), batch.NextCursor)
	assert.Equal(t, domain.SyncActionDelete, batch.Records[0].Action)
	assert.Empty(t, batch.Records[0].Data)

	batch, err = tr.Pull(ctx, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.False(t, batch.More)
	assert.Equal(t, int64(3), batch.NextCursor)

	_, err = tr.Pull(ctx, 4, 2)
	assert.Error(t, err)
}

func TestParseBatch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		isJSON bool
	}{
		{"unknown yaml field", "records:\n  - table: unit\n", false},
		{"unknown json field", `{"records":[],"cursor":1}`, true},
		{"missing record id", `{"records":[{"table_name":"unit","action":"upsert","data":{}}]}`, true},
		{"unknown action", `{"records":[{"table_name":"unit","record_id":"u1","action":"merge"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch([]byte(tt.data), tt.isJSON)
			assert.Error(t, err)
		})
	}
}

func TestPush_WritesOutbox(t *testing.T) {
	tr, dir := newTransport(t)
	ctx := context.Background()

	first := []translations.PushRecord{
		{Action: translations.PushActionUpsert, Cursor: 3, TableName: "Location", RecordID: "loc1", Data: json.RawMessage(`{"Description":"A & B <x>","ID":"loc1"}`)},
		{Action: translations.PushActionDelete, Cursor: 5, TableName: "transact", RecordID: "inv1"},
	}
	second := []translations.PushRecord{
		{Action: translations.PushActionUpsert, Cursor: 9, TableName: "number", RecordID: "n1", Data: json.RawMessage(`{"ID":"n1"}`)},
	}
	require.NoError(t, tr.Push(ctx, first))
	require.NoError(t, tr.Push(ctx, second))
	require.NoError(t, tr.Push(ctx, nil))

	entries, err := os.ReadDir(filepath.Join(dir, OutboxDir))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00000000000000000003-00000000000000000005.jsonl", entries[0].Name())

	got, err := tr.Outbox()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, `{"Description":"A & B <x>","ID":"loc1"}`, string(got[0].Data), "data is written unescaped")
	assert.Empty(t, got[1].Data)
	assert.Equal(t, int64(9), got[2].Cursor)
}

func TestTransport_DrivesSynchroniser(t *testing.T) {
	tr, dir := newTransport(t)
	require.NoError(t, tr.WriteSiteInfo(synchroniser.SiteInfo{SiteID: 1, SiteUUID: "site-1"}))
	writeInbox(t, dir, "0001.yaml", `
records:
  - table_name: store
    record_id: store_a
    action: upsert
    data: {ID: store_a, name_ID: n1, code: SA, sync_id: 1}
  - table_name: Location
    record_id: loc1
    action: upsert
    data: {ID: loc1, Description: Shelf, code: S1, hold: false, store_ID: store_a}
`)

	st := newStore(t)
	s := synchroniser.New(st, tr, tr)
	require.NoError(t, s.Sync(context.Background()))

	loc, err := findLocation(st, "loc1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Shelf", loc.Name)

	records, err := tr.Outbox()
	require.NoError(t, err)
	assert.Empty(t, records, "pulled rows are not pushed back")
}
