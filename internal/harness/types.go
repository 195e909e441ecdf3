package harness

import "github.com/roach88/sitesync/internal/translations"

// RunError is the failure of one sync run inside a scenario.
type RunError struct {
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds and no run failed unexpectedly.
	Pass bool `json:"pass"`

	// Pushed holds every record handed to the fake server, in push order.
	Pushed []translations.PushRecord `json:"pushed"`

	// SyncError is set when a run failed. The scenario stops at the first
	// failed run.
	SyncError *RunError `json:"sync_error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State contains the snapshot tables, keyed by table name.
	State map[string][]map[string]any `json:"state,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Pushed: []translations.PushRecord{},
		Errors: []string{},
		State:  make(map[string][]map[string]any),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
