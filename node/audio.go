package node

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// AudioBase provides the common state of audio nodes: a sample format
// configuration and the current per-channel sample values. Embed it and
// override AsAudioSource on the concrete type.
type AudioBase struct {
	Base
	cfg     AudioConfig
	current []float64
}

// NewAudioBase creates the embedded core of an audio node.
func NewAudioBase(start, end float64, cfg AudioConfig) (AudioBase, error) {
	if err := cfg.Validate(); err != nil {
		return AudioBase{}, fmt.Errorf("audio node config: %w", err)
	}
	return AudioBase{
		Base:    NewBase(start, end),
		cfg:     cfg,
		current: make([]float64, cfg.Channels),
	}, nil
}

// AudioConfig returns the node's sample format configuration.
func (a *AudioBase) AudioConfig() AudioConfig { return a.cfg }

// Samples returns the node's current per-channel sample values. The slice
// is reused between ticks; callers must consume it before the next
// Evaluate.
func (a *AudioBase) Samples() []float64 { return a.current }

// Tone is an audio node that generates a fixed-frequency sine wave on
// every channel.
type Tone struct {
	AudioBase
	frequency float64
	amplitude float64
}

// NewTone creates a sine generator node.
//
// Parameters:
//   - start, end: activity interval in seconds
//   - cfg: sample format; every channel carries the same signal
//   - frequency: tone frequency in Hz, must be positive
//   - amplitude: peak amplitude in [0, 1]
//
// Returns:
//   - *Tone: the constructed node
//   - error: ErrInvalidToneConfig or audio configuration failure
func NewTone(start, end float64, cfg AudioConfig, frequency, amplitude float64) (*Tone, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("%w: frequency %v", ErrInvalidToneConfig, frequency)
	}
	if amplitude < 0 || amplitude > 1 {
		return nil, fmt.Errorf("%w: amplitude %v", ErrInvalidToneConfig, amplitude)
	}

	base, err := NewAudioBase(start, end, cfg)
	if err != nil {
		return nil, err
	}

	n := &Tone{AudioBase: base, frequency: frequency, amplitude: amplitude}

	logrus.WithFields(logrus.Fields{
		"function":    "NewTone",
		"handle":      n.Handle(),
		"start":       start,
		"end":         end,
		"frequency":   frequency,
		"amplitude":   amplitude,
		"sample_rate": cfg.SampleRate,
		"channels":    cfg.Channels,
	}).Debug("Created tone node")

	return n, nil
}

// Evaluate computes the sine value for time t, phase-aligned to the node's
// start time, and stores it on every channel.
func (n *Tone) Evaluate(t float64) error {
	v := n.amplitude * math.Sin(2*math.Pi*n.frequency*(t-n.StartTime()))
	for ch := range n.current {
		n.current[ch] = v
	}
	return nil
}

// AsAudioSource returns the node's audio capability.
func (n *Tone) AsAudioSource() AudioSource { return n }
