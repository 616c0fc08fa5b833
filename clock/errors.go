package clock

import "errors"

// Sentinel errors for clock package operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrNonPositiveRate indicates a frame rate or sample rate that is
	// zero or negative.
	ErrNonPositiveRate = errors.New("rate must be a positive integer")

	// ErrIncrementOverflow indicates that the least common multiple of the
	// frame rate and sample rate does not fit the configured clock bounds.
	ErrIncrementOverflow = errors.New("clock increment overflows configured bounds")

	// ErrInvalidWindow indicates a recording window whose end precedes its
	// start, or whose bounds are not finite numbers.
	ErrInvalidWindow = errors.New("invalid recording window")

	// ErrWindowTooLong indicates a recording window whose step count at the
	// computed increment exceeds the configured bounds.
	ErrWindowTooLong = errors.New("recording window produces too many clock steps")
)
