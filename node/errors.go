package node

import "errors"

// Sentinel errors for node package operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrInvalidAudioConfig indicates an audio configuration whose sample
	// rate or channel layout cannot be captured.
	ErrInvalidAudioConfig = errors.New("invalid audio configuration")

	// ErrInvalidToneConfig indicates a tone generator with a non-positive
	// frequency or an amplitude outside [0, 1].
	ErrInvalidToneConfig = errors.New("invalid tone configuration")

	// ErrEmptyClip indicates a clip source that decoded to zero samples.
	ErrEmptyClip = errors.New("clip contains no samples")

	// ErrClipChannelCount indicates a clip node configured with a channel
	// count its decoded source cannot serve.
	ErrClipChannelCount = errors.New("unsupported clip channel count")
)
