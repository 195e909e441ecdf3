package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/synchroniser"
)

// Scenario defines a sync conformance scenario.
// Records are pulled from a fake central server and integrated, local
// writes are then pushed back, and the resulting state is asserted on.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mock seeds the store with the mock central rows and site before the
	// first run.
	Mock bool `yaml:"mock,omitempty"`

	// SiteID is the site the fake server reports. Ignored when Mock is set.
	SiteID int32 `yaml:"site_id,omitempty"`

	// Pull lists the records the fake server returns, in order.
	Pull []Record `yaml:"pull,omitempty"`

	// Local lists legacy records written locally after the first run. They
	// are translated like pulled records but stored as local changes, so a
	// second run pushes them.
	Local []Record `yaml:"local,omitempty"`

	// Snapshot names the domain tables captured in golden files.
	Snapshot []string `yaml:"snapshot,omitempty"`

	// Assertions validate pushed records and final state.
	// Supported types: final_state, row_count, push_contains, push_count,
	// sync_error.
	Assertions []Assertion `yaml:"assertions"`
}

// Record is one legacy record. Data is any YAML value and is sent to the
// translators as JSON.
type Record struct {
	TableName string `yaml:"table_name"`
	RecordID  string `yaml:"record_id"`
	Action    string `yaml:"action,omitempty"`
	Data      any    `yaml:"data,omitempty"`
}

// action defaults to upsert.
func (r Record) action() domain.SyncAction {
	if r.Action == "" {
		return domain.SyncActionUpsert
	}
	return domain.SyncAction(r.Action)
}

// payload encodes Data as JSON. Deletes carry no payload.
func (r Record) payload() (string, error) {
	if r.action() == domain.SyncActionDelete || r.Data == nil {
		return "", nil
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return "", fmt.Errorf("encode %s %s: %w", r.TableName, r.RecordID, err)
	}
	return string(data), nil
}

// Assertion validates pushed records or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": Find one row in table and verify expected values
	// - "row_count": Check a table holds exactly Count rows
	// - "push_contains": Check a record was pushed
	// - "push_count": Check exactly Count records were pushed
	// - "sync_error": Check a run failed with Code
	Type string `yaml:"type"`

	// Table is the domain table (used by final_state, row_count).
	Table string `yaml:"table,omitempty"`

	// Where selects rows by column value (used by final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected column values (used by final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// TableName, RecordID and Action identify a pushed legacy record
	// (used by push_contains).
	TableName string `yaml:"table_name,omitempty"`
	RecordID  string `yaml:"record_id,omitempty"`
	Action    string `yaml:"action,omitempty"`

	// Data is a subset of the pushed payload (used by push_contains).
	Data map[string]any `yaml:"data,omitempty"`

	// Count is the expected number of rows or records.
	Count int `yaml:"count,omitempty"`

	// Code is the expected error code (used by sync_error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState   = "final_state"
	AssertRowCount     = "row_count"
	AssertPushContains = "push_contains"
	AssertPushCount    = "push_count"
	AssertSyncError    = "sync_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml file in dir, in name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if !s.Mock && s.SiteID == 0 {
		return fmt.Errorf("site_id is required unless mock is set")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, r := range s.Pull {
		if err := validateRecord(r); err != nil {
			return fmt.Errorf("pull[%d]: %w", i, err)
		}
	}
	for i, r := range s.Local {
		if err := validateRecord(r); err != nil {
			return fmt.Errorf("local[%d]: %w", i, err)
		}
	}

	for i, table := range s.Snapshot {
		if table == "" {
			return fmt.Errorf("snapshot[%d]: table is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateRecord(r Record) error {
	if r.TableName == "" {
		return fmt.Errorf("table_name is required")
	}
	if r.RecordID == "" {
		return fmt.Errorf("record_id is required")
	}
	switch r.action() {
	case domain.SyncActionUpsert:
		if r.Data == nil {
			return fmt.Errorf("data is required for upsert")
		}
	case domain.SyncActionDelete:
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertRowCount:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for row_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertPushContains:
		if a.TableName == "" || a.RecordID == "" {
			return fmt.Errorf("assertions[%d]: table_name and record_id are required for push_contains", index)
		}
	case AssertPushCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for push_count", index)
		}
	case AssertSyncError:
		switch synchroniser.SyncErrorCode(a.Code) {
		case synchroniser.ErrCodeMalformedRecord,
			synchroniser.ErrCodeMissingDependency,
			synchroniser.ErrCodeSiteIDNotSet,
			synchroniser.ErrCodeStorageFailure,
			synchroniser.ErrCodeTransportFailure,
			synchroniser.ErrCodeTranslationFailure:
		default:
			return fmt.Errorf("assertions[%d]: unknown error code %q for sync_error", index, a.Code)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
