package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/translations"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string                    // Assertion type for categorization
	Expected string                    // Human-readable expected outcome
	Actual   string                    // Human-readable actual outcome
	Pushed   []translations.PushRecord // Pushed records for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Pushed) > 0 {
		fmt.Fprintf(&buf, "\nPushed records:\n")
		for i, r := range e.Pushed {
			fmt.Fprintf(&buf, "  [%d] %s %s %s\n", i+1, r.Action, r.TableName, r.RecordID)
		}
	}

	return buf.String()
}

// assertPushContains checks a record with the given table, id and action was
// pushed and that its payload contains Data (subset match).
func assertPushContains(pushed []translations.PushRecord, assertion Assertion) error {
	action := translations.PushActionUpsert
	if assertion.Action != "" {
		action = translations.PushAction(assertion.Action)
	}

	for _, r := range pushed {
		if r.TableName != assertion.TableName || r.RecordID != assertion.RecordID || r.Action != action {
			continue
		}
		if len(assertion.Data) == 0 {
			return nil
		}
		var payload map[string]any
		if err := json.Unmarshal(r.Data, &payload); err != nil {
			return fmt.Errorf("decode pushed %s %s: %w", r.TableName, r.RecordID, err)
		}
		if matchFields(payload, assertion.Data) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertPushContains,
		Expected: fmt.Sprintf("%s %s %s with %v", action, assertion.TableName, assertion.RecordID, assertion.Data),
		Actual:   "not pushed",
		Pushed:   pushed,
	}
}

// assertPushCount checks the exact number of pushed records.
func assertPushCount(pushed []translations.PushRecord, assertion Assertion) error {
	if len(pushed) != assertion.Count {
		return &AssertionError{
			Type:     AssertPushCount,
			Expected: fmt.Sprintf("%d pushed records", assertion.Count),
			Actual:   fmt.Sprintf("%d pushed records", len(pushed)),
			Pushed:   pushed,
		}
	}
	return nil
}

// assertSyncError checks a run failed with the expected code.
func assertSyncError(result *Result, assertion Assertion) error {
	if result.SyncError == nil {
		return &AssertionError{
			Type:     AssertSyncError,
			Expected: fmt.Sprintf("sync failure with code %s", assertion.Code),
			Actual:   "every run succeeded",
		}
	}
	if result.SyncError.Code != assertion.Code {
		return &AssertionError{
			Type:     AssertSyncError,
			Expected: fmt.Sprintf("sync failure with code %s", assertion.Code),
			Actual:   fmt.Sprintf("code %s: %s", result.SyncError.Code, result.SyncError.Message),
		}
	}
	return nil
}

// assertRowCount checks a table holds exactly Count rows.
func assertRowCount(ctx context.Context, st *store.Store, assertion Assertion) error {
	rows, err := st.Connection().DumpTable(ctx, domain.Table(assertion.Table))
	if err != nil {
		return fmt.Errorf("row_count: %w", err)
	}
	if len(rows) != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows in %s", assertion.Count, assertion.Table),
			Actual:   fmt.Sprintf("%d rows", len(rows)),
		}
	}
	return nil
}

// assertFinalState checks exactly one row of the table matches Where and
// that it holds the values in Expect (subset semantics).
func assertFinalState(ctx context.Context, st *store.Store, assertion Assertion) error {
	if assertion.Table == "" {
		return fmt.Errorf("final_state assertion requires table name")
	}

	rows, err := st.Connection().DumpTable(ctx, domain.Table(assertion.Table))
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("read table %s", assertion.Table),
			Actual:   fmt.Sprintf("read error: %v", err),
		}
	}

	var matched []map[string]any
	for _, row := range rows {
		if matchFields(row, assertion.Where) {
			matched = append(matched, row)
		}
	}

	whereDesc := formatWhereClause(assertion.Where)
	switch {
	case len(matched) == 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
			Actual:   "row not found",
		}
	case len(matched) > 1:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := matched[0]
	for _, key := range sortedKeys(assertion.Expect) {
		expectedValue := assertion.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in columns: %v", key, sortedKeys(actualRow)),
			}
		}

		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// matchFields checks if actual contains every expected field (subset match).
// Extra keys in actual are ignored.
func matchFields(actual, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists || !stateValuesEqual(expectedVal, actualVal) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares an expected value from YAML with a value read
// from SQLite or decoded from JSON. Numbers compare by value across integer
// and float types; booleans also match SQLite's 0/1.
func stateValuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	if exp, ok := toFloat(expected); ok {
		if act, ok := toFloat(actual); ok {
			return exp == act
		}
		return false
	}

	switch exp := expected.(type) {
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		switch act := actual.(type) {
		case bool:
			return exp == act
		case int64:
			return exp == (act != 0)
		}
		return false
	}

	// Fallback to DeepEqual for complex types
	return reflect.DeepEqual(expected, actual)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertPushContains:
			err = assertPushContains(result.Pushed, assertion)
		case AssertPushCount:
			err = assertPushCount(result.Pushed, assertion)
		case AssertSyncError:
			err = assertSyncError(result, assertion)
		case AssertFinalState, AssertRowCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			} else if assertion.Type == AssertFinalState {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			} else {
				err = assertRowCount(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
