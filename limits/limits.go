// Package limits provides centralized size and rate limits for the montage
// rendering engine. This ensures consistent validation across different
// components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxClockIncrement is the largest permitted unified clock increment
	// (ticks per second). The increment is the least common multiple of the
	// frame rate and the sample rate; rates whose LCM exceeds this bound
	// would produce loop step counts that overflow practical recordings.
	MaxClockIncrement = int64(1) << 40

	// MaxRecordingSteps is the largest permitted number of unified clock
	// steps in a single recording. Keeps progress counters comfortably
	// inside int64 and bounds the recording loop.
	MaxRecordingSteps = int64(1) << 48

	// MaxFrameDimension is the maximum width or height of a canvas or a
	// video node surface, in pixels.
	MaxFrameDimension = 16384

	// MaxChannelCount is the maximum number of audio channels per node.
	MaxChannelCount = 8

	// MaxPassthroughOptions is the maximum number of opaque encoder options
	// a caller may append to a single recording.
	MaxPassthroughOptions = 64
)

var (
	// ErrValueOutOfRange indicates a value exceeds its configured limit.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrValueNotPositive indicates a value that must be positive was not.
	ErrValueNotPositive = errors.New("value must be positive")
)

// ValidateFrameDimensions validates a canvas or surface size in pixels.
// Returns an error with context including the offending dimension.
func ValidateFrameDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrValueNotPositive, width, height)
	}
	if width > MaxFrameDimension || height > MaxFrameDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed limit %d", ErrValueOutOfRange, width, height, MaxFrameDimension)
	}
	return nil
}

// ValidateChannelCount validates an audio node channel count against
// MaxChannelCount. Zero channels is valid configuration for a node whose
// audio output is disabled; negative counts are not.
func ValidateChannelCount(channels int) error {
	if channels < 0 {
		return fmt.Errorf("%w: channel count %d", ErrValueNotPositive, channels)
	}
	if channels > MaxChannelCount {
		return fmt.Errorf("%w: channel count %d exceeds limit %d", ErrValueOutOfRange, channels, MaxChannelCount)
	}
	return nil
}

// ValidateClockIncrement validates a unified clock increment against
// MaxClockIncrement.
func ValidateClockIncrement(increment int64) error {
	if increment <= 0 {
		return fmt.Errorf("%w: clock increment %d", ErrValueNotPositive, increment)
	}
	if increment > MaxClockIncrement {
		return fmt.Errorf("%w: clock increment %d exceeds limit %d", ErrValueOutOfRange, increment, MaxClockIncrement)
	}
	return nil
}

// ValidateStepCount validates a recording loop step count against
// MaxRecordingSteps.
func ValidateStepCount(steps int64) error {
	if steps <= 0 {
		return fmt.Errorf("%w: step count %d", ErrValueNotPositive, steps)
	}
	if steps > MaxRecordingSteps {
		return fmt.Errorf("%w: step count %d exceeds limit %d", ErrValueOutOfRange, steps, MaxRecordingSteps)
	}
	return nil
}

// ValidatePassthroughOptions validates the number of opaque encoder options
// against MaxPassthroughOptions. The option strings themselves are
// deliberately not inspected; they are an external contract.
func ValidatePassthroughOptions(options []string) error {
	if len(options) > MaxPassthroughOptions {
		return fmt.Errorf("%w: %d passthrough options exceed limit %d", ErrValueOutOfRange, len(options), MaxPassthroughOptions)
	}
	return nil
}
