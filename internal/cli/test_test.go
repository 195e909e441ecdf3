package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const tagScenario = `name: pull_tag
description: A name tag arrives from the server
site_id: 3
pull:
  - table_name: name_tag
    record_id: tag_x
    data: { ID: tag_x, description: Tag X }
snapshot: [name_tag]
assertions:
  - type: final_state
    table: name_tag
    where: { id: tag_x }
    expect: { name: Tag X }
`

func writeScenario(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execute(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ program_expansion")
	assert.Contains(t, out, "✓ local_location_push")
	assert.Contains(t, out, "✓ program_missing_tag")
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := execute(t, "test", harnessScenarios, "--filter", "program_*", "--format", "json")
	require.NoError(t, err, out)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	writeScenario(t, scenarios, "pull_tag.yaml", tagScenario)

	out, err := execute(t, "test", scenarios, "--update")
	require.NoError(t, err, out)

	golden, err := os.ReadFile(filepath.Join(root, "golden", "pull_tag.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"pull_tag"`)
	assert.Contains(t, string(golden), `"name":"Tag X"`)

	_, err = execute(t, "test", scenarios)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "pull_tag.golden"), []byte("{}"), 0644))
	out, err = execute(t, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ pull_tag")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommand_GoldenDirFlag(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	goldenDir := filepath.Join(root, "snapshots")
	writeScenario(t, scenarios, "pull_tag.yaml", tagScenario)

	_, err := execute(t, "test", scenarios, "--update", "--golden", goldenDir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(goldenDir, "pull_tag.golden"))
	assert.NoError(t, err)
}

func TestTestCommand_FailuresJSON(t *testing.T) {
	scenarios := t.TempDir()
	writeScenario(t, scenarios, "broken.yaml", "name: broken\n")
	writeScenario(t, scenarios, "wrong.yaml", `name: wrong
description: Expects a row that never arrives
site_id: 3
assertions:
  - type: row_count
    table: name_tag
    count: 1
`)

	out, err := execute(t, "test", scenarios, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 2, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "broken.yaml", resp.Data.Scenarios[0].Name)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")
	assert.Equal(t, "wrong", resp.Data.Scenarios[1].Name)
	assert.Contains(t, resp.Data.Scenarios[1].Errors[0], "1 rows in name_tag")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "")
	writeScenario(t, dir, "b.yml", "")
	writeScenario(t, dir, "notes.txt", "")
	writeScenario(t, filepath.Join(dir, "nested"), "c.yaml", "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = findScenarioFiles(dir, "a*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}
