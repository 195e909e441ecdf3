package synchroniser

import (
	"errors"
	"fmt"

	"github.com/roach88/sitesync/internal/translations"
)

// ErrSyncInProgress is returned when Sync is called while a run is active.
var ErrSyncInProgress = errors.New("sync already in progress")

// SyncErrorCode categorizes run failures. The code is persisted on the sync
// log row.
type SyncErrorCode string

const (
	ErrCodeMalformedRecord    SyncErrorCode = "MALFORMED_RECORD"
	ErrCodeMissingDependency  SyncErrorCode = "MISSING_DEPENDENCY"
	ErrCodeSiteIDNotSet       SyncErrorCode = "SITE_ID_NOT_SET"
	ErrCodeStorageFailure     SyncErrorCode = "STORAGE_FAILURE"
	ErrCodeTransportFailure   SyncErrorCode = "TRANSPORT_FAILURE"
	ErrCodeTranslationFailure SyncErrorCode = "TRANSLATION_FAILURE"
)

// Phase names the part of a run an error happened in.
type Phase string

const (
	PhasePrepare     Phase = "prepare_initial"
	PhasePull        Phase = "pull"
	PhaseIntegration Phase = "integration"
	PhasePush        Phase = "push"
)

// SyncError is a fatal run failure.
type SyncError struct {
	Code    SyncErrorCode
	Phase   Phase
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s (phase=%s)", e.Code, e.Message, e.Phase)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// transportError marks failures of the remote source or push sink.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string { return e.op + ": " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// newSyncError classifies err and attaches the phase.
func newSyncError(phase Phase, err error) *SyncError {
	var se *SyncError
	if errors.As(err, &se) {
		return se
	}
	return &SyncError{
		Code:    codeFor(err),
		Phase:   phase,
		Message: err.Error(),
		Err:     err,
	}
}

func codeFor(err error) SyncErrorCode {
	var te *transportError
	var tre *translations.SyncTranslationError
	switch {
	case errors.Is(err, translations.ErrSiteIDNotSet):
		return ErrCodeSiteIDNotSet
	case translations.IsMalformed(err):
		return ErrCodeMalformedRecord
	case translations.IsMissingDependency(err):
		return ErrCodeMissingDependency
	case errors.As(err, &te):
		return ErrCodeTransportFailure
	case errors.As(err, &tre):
		return ErrCodeTranslationFailure
	default:
		return ErrCodeStorageFailure
	}
}

// ErrorCode returns the code of a SyncError in err's chain, or "".
func ErrorCode(err error) SyncErrorCode {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsTransportError returns true if err was caused by the remote source or
// push sink.
func IsTransportError(err error) bool {
	return ErrorCode(err) == ErrCodeTransportFailure
}
