package session

import (
	"errors"
	"fmt"

	"github.com/roach88/keycalc/internal/ir"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeUnknownKey indicates a key that resolves to no command.
	ErrCodeUnknownKey ErrorCode = "UNKNOWN_KEY"

	// ErrCodeReplayDiverged indicates a replay produced a different step.
	ErrCodeReplayDiverged ErrorCode = "REPLAY_DIVERGED"
)

// SessionError is returned for presses the session could not apply.
// The state is unchanged when a SessionError is returned.
type SessionError struct {
	Code      ErrorCode
	Message   string
	SessionID string
	Key       string
	Err       error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Key != "" {
		msg += fmt.Sprintf(" (key=%q)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsUnknownKey reports whether err is an unknown key error.
func IsUnknownKey(err error) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnknownKey
	}
	return false
}

// ReplayError is returned when a replayed tape diverges from the original.
type ReplayError struct {
	// Index is the position of the first differing step.
	Index int

	// Expected is the recorded step; zero when the replay produced extra steps.
	Expected ir.Step

	// Actual is the replayed step; zero when the replay produced fewer steps.
	Actual ir.Step
}

// Error implements the error interface.
func (e *ReplayError) Error() string {
	return fmt.Sprintf("%s: step %d: expected %s -> %q, got %s -> %q",
		ErrCodeReplayDiverged, e.Index,
		e.Expected.Command, e.Expected.Display,
		e.Actual.Command, e.Actual.Display)
}
