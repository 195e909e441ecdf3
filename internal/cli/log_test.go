package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sitesync/internal/domain"
)

func TestLog_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "site.db")

	out, err := execute(t, "log", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No sync runs recorded.\n", out)

	out, err = execute(t, "log", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"runs":[]}}`, out)
}

func TestLog_ListsRuns(t *testing.T) {
	dir, db := newSiteDir(t, map[string]string{"001.yaml": nameTagBatch})
	_, err := execute(t, "sync", "--db", db, "--dir", dir)
	require.NoError(t, err)
	_, err = execute(t, "sync", "--db", db, "--dir", dir)
	require.NoError(t, err)

	out, err := execute(t, "log", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data LogResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 2)
	newest := resp.Data.Runs[0]
	assert.False(t, newest.Started.Before(resp.Data.Runs[1].Started))

	out, err = execute(t, "log", "--db", db, "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, newest.ID))

	out, err = execute(t, "log", "--db", db, "--initial", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	initial := resp.Data.Runs[0]
	assert.Equal(t, "prepare_initial", initial.Phases[0].Name)

	out, err = execute(t, "log", "--db", db, "--id", initial.ID, "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, initial.ID, resp.Data.Runs[0].ID)
}

func TestLog_UnknownID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "site.db")

	out, err := execute(t, "log", "--db", db, "--id", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeNotFound+"]")
}

func TestLogEntry_String(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	done := start.Add(1500 * time.Millisecond)
	code := "MISSING_DEPENDENCY"
	msg := "name tag NoSuchTag not found"

	tests := []struct {
		name string
		row  domain.SyncLogRow
		want string
	}{
		{
			name: "running",
			row:  domain.SyncLogRow{ID: "r1", StartedDatetime: start, PullStartedDatetime: &start},
			want: "r1  2024-01-01T00:00:00Z  running  [pull]",
		},
		{
			name: "done",
			row: domain.SyncLogRow{
				ID: "r2", StartedDatetime: start, DoneDatetime: &done,
				PushStartedDatetime: &start, PushDoneDatetime: &done,
				PullStartedDatetime: &start, PullDoneDatetime: &done,
			},
			want: "r2  2024-01-01T00:00:00Z  done in 1.5s  [push pull]",
		},
		{
			name: "failed",
			row: domain.SyncLogRow{
				ID: "r3", StartedDatetime: start, DoneDatetime: &done,
				IntegrationStartedDatetime: &start,
				ErrorCode:                  &code,
				ErrorMessage:               &msg,
			},
			want: "r3  2024-01-01T00:00:00Z  failed MISSING_DEPENDENCY: name tag NoSuchTag not found  [integration]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newLogEntry(tt.row).String())
		})
	}
}

func TestPluralRecords(t *testing.T) {
	assert.Equal(t, "0 records", pluralRecords(0))
	assert.Equal(t, "1 record", pluralRecords(1))
	assert.Equal(t, "2 records", pluralRecords(2))
}
