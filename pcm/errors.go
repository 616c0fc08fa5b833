package pcm

import "errors"

// Sentinel errors for pcm package operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrInvalidSampleSize indicates a sample width that is not one of the
	// supported PCM encodings (8, 16, 24 or 32 bits).
	ErrInvalidSampleSize = errors.New("invalid sample size")

	// ErrNotImplemented indicates a sample width that is recognized but has
	// no packing implementation (24-bit PCM).
	ErrNotImplemented = errors.New("sample size not implemented")

	// ErrInvalidChannelCount indicates a channel count unsuitable for the
	// audio container header.
	ErrInvalidChannelCount = errors.New("invalid channel count")

	// ErrInvalidSampleRate indicates a non-positive sample rate in the
	// audio container header.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)
