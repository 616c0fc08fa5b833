// Package limits provides centralized size and rate limits for the montage
// rendering engine, with validation functions that return structured errors.
//
// # Limit Hierarchy
//
// The package defines bounds applied before any recording work begins:
//
//   - MaxClockIncrement: cap on the unified clock increment (the least
//     common multiple of frame rate and sample rate). Rate pairs with a
//     pathological LCM are rejected up front rather than producing loops
//     with astronomically many steps.
//
//   - MaxRecordingSteps: cap on the total steps of one recording loop,
//     keeping the integer progress counter well inside int64.
//
//   - MaxFrameDimension: cap on canvas and node surface dimensions.
//
//   - MaxChannelCount: cap on per-node audio channels.
//
//   - MaxPassthroughOptions: cap on caller-supplied encoder options.
//
// # Validation Functions
//
// Each validation function returns nil for acceptable values and a wrapped
// sentinel error otherwise:
//
//	if err := limits.ValidateClockIncrement(increment); err != nil {
//	    // errors.Is(err, limits.ErrValueOutOfRange) or ErrValueNotPositive
//	}
//
// All validation errors wrap either ErrValueOutOfRange or
// ErrValueNotPositive, enabling classification with errors.Is().
package limits
