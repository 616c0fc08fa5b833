package mux

import (
	"errors"
	"fmt"
)

var (
	// ErrEncoderFailure indicates the external encoder process reported
	// diagnostic output or exited abnormally. There is no partial-success
	// path and no automatic retry.
	ErrEncoderFailure = errors.New("external encoder failed")

	// ErrNoInput indicates a request with neither frame bytes nor audio
	// tracks.
	ErrNoInput = errors.New("nothing to mux")

	// ErrMissingContainer indicates a request without an output container
	// format.
	ErrMissingContainer = errors.New("missing output container format")
)

// RunError carries the full command line and the encoder's diagnostic
// output verbatim, for user debugging.
type RunError struct {
	Command    string
	Diagnostic string
}

// Error formats the failure with the exact command line and diagnostic
// text.
func (e *RunError) Error() string {
	return fmt.Sprintf("external encoder failed: `%s`: %s", e.Command, e.Diagnostic)
}

// Unwrap classifies RunError as an ErrEncoderFailure for errors.Is.
func (e *RunError) Unwrap() error {
	return ErrEncoderFailure
}
