package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/translations"
)

// Snapshot captures what a scenario produced.
// All fields use canonical JSON serialization for deterministic comparison.
// Error messages are left out so wording changes don't churn golden files.
type Snapshot struct {
	ScenarioName string                      `json:"scenario_name"`
	Pushed       []translations.PushRecord   `json:"pushed"`
	State        map[string][]map[string]any `json:"state"`
	SyncError    *SnapshotError              `json:"sync_error,omitempty"`
}

// SnapshotError is the classification of a failed run.
type SnapshotError struct {
	Code  string `json:"code"`
	Phase string `json:"phase"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{
		ScenarioName: name,
		Pushed:       result.Pushed,
		State:        result.State,
	}
	if s.Pushed == nil {
		s.Pushed = []translations.PushRecord{}
	}
	if s.State == nil {
		s.State = map[string][]map[string]any{}
	}
	if result.SyncError != nil {
		s.SyncError = &SnapshotError{Code: result.SyncError.Code, Phase: result.SyncError.Phase}
	}
	return s
}

// Marshal encodes the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return legacy.Marshal(s)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
