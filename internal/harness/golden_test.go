package harness

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sitesync/internal/translations"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.Pushed = append(result.Pushed, translations.PushRecord{
		Action:    translations.PushActionDelete,
		Cursor:    7,
		TableName: "Location",
		RecordID:  "loc_1",
	})
	result.State["location"] = []map[string]any{}
	result.SyncError = &RunError{Code: "STORAGE_FAILURE", Phase: "push", Message: "disk full"}

	data, err := NewSnapshot("canonical", result).Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"pushed":[{"action":"delete","cursor":7,"record_id":"loc_1","table_name":"Location"}],"scenario_name":"canonical","state":{"location":[]},"sync_error":{"code":"STORAGE_FAILURE","phase":"push"}}`,
		string(data))
}

func TestSnapshot_EmptyResult(t *testing.T) {
	data, err := NewSnapshot("empty", &Result{}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, `{"pushed":[],"scenario_name":"empty","state":{}}`, string(data))
}

func TestSnapshot_KeepsPayloadBytes(t *testing.T) {
	result := NewResult()
	result.Pushed = append(result.Pushed, translations.PushRecord{
		Action:    translations.PushActionUpsert,
		Cursor:    1,
		TableName: "Location",
		RecordID:  "loc_1",
		Data:      json.RawMessage(`{"code":"A & B <x>"}`),
	})

	data, err := NewSnapshot("payload", result).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":{"code":"A & B <x>"}`)
}
