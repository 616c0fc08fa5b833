package montage

import "errors"

// Sentinel errors for composition-level operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrUnknownExtension indicates a destination path whose extension
	// does not name an output format.
	ErrUnknownExtension = errors.New("cannot infer format from destination extension")

	// ErrNilDestination indicates a nil destination writer.
	ErrNilDestination = errors.New("nil destination")
)
