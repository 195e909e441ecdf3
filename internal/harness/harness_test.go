package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/synchroniser"
)

func TestRun_PullsAndIntegrates(t *testing.T) {
	scenario := &Scenario{
		Name:        "pull_name_tag",
		Description: "A name tag is pulled into an empty site",
		SiteID:      3,
		Pull: []Record{
			{TableName: legacy.TableNameTag, RecordID: "tag_x", Data: map[string]any{"ID": "tag_x", "description": "Tag X"}},
		},
		Snapshot: []string{"name_tag"},
		Assertions: []Assertion{
			{Type: AssertFinalState, Table: "name_tag", Where: map[string]any{"id": "tag_x"}, Expect: map[string]any{"name": "Tag X"}},
			{Type: AssertPushCount, Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Nil(t, result.SyncError)
	require.Len(t, result.State["name_tag"], 1)
	assert.Equal(t, "tag_x", result.State["name_tag"][0]["id"])
}

func TestRun_LocalWritesArePushed(t *testing.T) {
	scenario := &Scenario{
		Name:        "local_number",
		Description: "A local number row is pushed",
		Mock:        true,
		Local: []Record{
			{TableName: legacy.TableLocation, RecordID: "loc_9", Data: map[string]any{
				"ID": "loc_9", "Description": "Fridge", "code": "F", "hold": true, "store_ID": "store_a",
			}},
		},
		Assertions: []Assertion{
			{Type: AssertPushContains, TableName: legacy.TableLocation, RecordID: "loc_9", Data: map[string]any{"hold": true}},
			{Type: AssertFinalState, Table: "location", Where: map[string]any{"id": "loc_9"}, Expect: map[string]any{"on_hold": true}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Pushed, 1)
	assert.Equal(t, int64(1), result.Pushed[0].Cursor)
}

func TestRun_FailedAssertionsAreReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectations",
		Description: "Every assertion fails",
		Mock:        true,
		Assertions: []Assertion{
			{Type: AssertPushCount, Count: 2},
			{Type: AssertRowCount, Table: "store", Count: 0},
			{Type: AssertFinalState, Table: "item", Where: map[string]any{"id": "item_a"}, Expect: map[string]any{"name": "Wrong"}},
			{Type: AssertSyncError, Code: string(synchroniser.ErrCodeMalformedRecord)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "2 pushed records")
	assert.Contains(t, result.Errors[1], "0 rows in store")
	assert.Contains(t, result.Errors[2], `field "name" = Wrong`)
	assert.Contains(t, result.Errors[3], "every run succeeded")
}

func TestRun_UnexpectedSyncFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_payload",
		Description: "A malformed record fails the run",
		Mock:        true,
		Pull: []Record{
			{TableName: legacy.TableLocation, RecordID: "loc_1", Data: "not an object"},
		},
		Assertions: []Assertion{
			{Type: AssertPushCount, Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotNil(t, result.SyncError)
	assert.Equal(t, string(synchroniser.ErrCodeMalformedRecord), result.SyncError.Code)
	assert.Equal(t, string(synchroniser.PhaseIntegration), result.SyncError.Phase)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected sync failure")
}

func TestRun_UnclaimedLocalWrite(t *testing.T) {
	scenario := &Scenario{
		Name:        "unclaimed_local",
		Description: "A local record nobody translates",
		Mock:        true,
		Local: []Record{
			{TableName: "NoSuchTable", RecordID: "x", Data: map[string]any{}},
		},
		Assertions: []Assertion{
			{Type: AssertPushCount, Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no translator claimed NoSuchTable x")
}

func TestRun_UnknownSnapshotTable(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_snapshot",
		Description: "Snapshot of a table that does not exist",
		Mock:        true,
		Snapshot:    []string{"nope"},
		Assertions:  []Assertion{{Type: AssertPushCount}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot nope")
}

func TestScenarioSource_Pages(t *testing.T) {
	src, err := newScenarioSource(&Scenario{
		SiteID: 4,
		Pull: []Record{
			{TableName: "a", RecordID: "1", Data: map[string]any{}},
			{TableName: "a", RecordID: "2", Data: map[string]any{}},
			{TableName: "a", RecordID: "3", Action: "delete"},
		},
	})
	require.NoError(t, err)

	info, err := src.SiteInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, synchroniser.SiteInfo{SiteID: 4, SiteUUID: "site-4"}, info)

	page, err := src.Pull(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, int64(2), page.NextCursor)
	assert.True(t, page.More)

	page, err = src.Pull(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Empty(t, page.Records[0].Data)
	assert.False(t, page.More)

	_, err = src.Pull(context.Background(), 4, 2)
	assert.Error(t, err)
}
