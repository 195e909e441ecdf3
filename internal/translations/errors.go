package translations

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord reports a legacy payload that does not parse against
// the shape its table expects. Malformed data is a central server bug and
// aborts the sync run.
var ErrMalformedRecord = errors.New("malformed legacy record")

// MissingDependencyError reports a referenced local row that does not exist.
type MissingDependencyError struct {
	// Dependency names what was looked up, e.g. "name_tag".
	Dependency string
	// Key is the value it was looked up by.
	Key string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency %s %q", e.Dependency, e.Key)
}

// SyncTranslationError wraps any failure of a translator with the record it
// was translating.
type SyncTranslationError struct {
	Operation string
	TableName string
	RecordID  string
	Err       error
}

func (e *SyncTranslationError) Error() string {
	return fmt.Sprintf("translate %s %s %s: %v", e.Operation, e.TableName, e.RecordID, e.Err)
}

func (e *SyncTranslationError) Unwrap() error {
	return e.Err
}

// Operation names used in SyncTranslationError.
const (
	OperationPullUpsert = "pull upsert"
	OperationPullDelete = "pull delete"
	OperationPush       = "push"
)

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
}

// IsMalformed returns true if err is or wraps ErrMalformedRecord.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsMissingDependency returns true if err is or wraps a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var md *MissingDependencyError
	return errors.As(err, &md)
}
