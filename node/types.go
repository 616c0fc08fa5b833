package node

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/montage-av/montage/limits"
	"github.com/montage-av/montage/pcm"
	"github.com/montage-av/montage/render"
)

// Handle is a stable opaque node identifier. Handles are unique per
// process and are used as map keys by the recording pipeline in place of
// object identity.
type Handle uint64

var handleCounter atomic.Uint64

// nextHandle allocates the next node handle. Handle zero is never issued
// so the zero value stays recognizably invalid.
func nextHandle() Handle {
	return Handle(handleCounter.Add(1))
}

// Node is a time-bounded unit of work on a timeline.
type Node interface {
	// Handle returns the node's stable opaque identifier.
	Handle() Handle

	// StartTime returns the beginning of the node's activity interval.
	StartTime() float64

	// EndTime returns the exclusive end of the node's activity interval.
	EndTime() float64

	// ActiveAt reports whether t lies in [StartTime, EndTime).
	ActiveAt(t float64) bool

	// Evaluate advances the node's internal state to time t. Called once
	// per unified clock tick while active.
	Evaluate(t float64) error

	// AsVideoSource returns the node's video capability, or nil.
	AsVideoSource() VideoSource

	// AsAudioSource returns the node's audio capability, or nil.
	AsAudioSource() AudioSource
}

// VideoSource is the capability of nodes that render pixels.
type VideoSource interface {
	// VideoConfig returns the node's placement and dimensions.
	VideoConfig() VideoConfig

	// Surface returns the node's private render target.
	Surface() *render.Surface
}

// AudioSource is the capability of nodes that produce samples.
type AudioSource interface {
	// AudioConfig returns the node's sample format configuration.
	AudioConfig() AudioConfig

	// Samples returns the node's current per-channel sample values, one
	// entry per channel, each nominally in [-1, 1]. Valid after Evaluate.
	Samples() []float64
}

// VideoConfig carries a video node's placement on the canvas and its
// composited pixel dimensions.
type VideoConfig struct {
	X      int
	Y      int
	Width  int
	Height int
}

// PlacementRect returns the canvas rectangle the node composites into.
func (c VideoConfig) PlacementRect() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Validate checks the configured dimensions against the frame limits.
func (c VideoConfig) Validate() error {
	return limits.ValidateFrameDimensions(c.Width, c.Height)
}

// AudioConfig carries an audio node's sample format. OutputAudio gates
// inclusion of the node's track in the final mux.
type AudioConfig struct {
	SampleSize  int // bits per sample: 8, 16, 24 or 32
	SampleRate  int // samples per second
	Channels    int
	OutputAudio bool
}

// Validate checks that the configuration can be captured and staged.
// 24-bit widths surface pcm.ErrNotImplemented; other unknown widths
// surface pcm.ErrInvalidSampleSize.
func (c AudioConfig) Validate() error {
	if err := pcm.ValidateSampleSize(c.SampleSize); err != nil {
		return err
	}
	if err := limits.ValidateChannelCount(c.Channels); err != nil {
		return err
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudioConfig, c.SampleRate)
	}
	return nil
}

// Base provides interval bookkeeping and nil capability defaults for
// concrete nodes. The interval is immutable after construction.
type Base struct {
	handle Handle
	start  float64
	end    float64
}

// NewBase creates the embedded core of a node with its activity interval.
// Intervals with end <= start are permitted; such nodes are simply never
// active.
func NewBase(start, end float64) Base {
	return Base{handle: nextHandle(), start: start, end: end}
}

// Handle returns the node's stable opaque identifier.
func (b *Base) Handle() Handle { return b.handle }

// StartTime returns the beginning of the node's activity interval.
func (b *Base) StartTime() float64 { return b.start }

// EndTime returns the exclusive end of the node's activity interval.
func (b *Base) EndTime() float64 { return b.end }

// ActiveAt reports whether t lies in the half-open interval [start, end).
func (b *Base) ActiveAt(t float64) bool {
	return b.start <= t && t < b.end
}

// AsVideoSource returns nil; video nodes override it.
func (b *Base) AsVideoSource() VideoSource { return nil }

// AsAudioSource returns nil; audio nodes override it.
func (b *Base) AsAudioSource() AudioSource { return nil }
