package record

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/clock"
	"github.com/montage-av/montage/node"
	"github.com/montage-av/montage/pcm"
	"github.com/montage-av/montage/render"
)

// Timeline is the composition surface the pipeline drives. Implemented by
// montage.Composition.
type Timeline interface {
	// Advance sets the virtual clock to t, evaluates every node active at
	// t, and composites video output.
	Advance(t float64) error

	// SnapshotFrame encodes the current composited frame as a single still
	// image in the given format.
	SnapshotFrame(format string) ([]byte, error)

	// Nodes returns the timeline's nodes in insertion order.
	Nodes() []node.Node
}

// Options configures one recording run.
type Options struct {
	FrameRate   int
	SampleRate  int
	Window      clock.Window
	ImageFormat string // still format for the frame stream; default png
}

// Track is one audio node's finalized capture: its identity, timeline
// offset, sample format and packed samples.
type Track struct {
	Handle node.Handle
	Start  float64
	Config node.AudioConfig
	Buffer *pcm.Buffer
}

// Result is the completed output of a recording run, ready for muxing.
type Result struct {
	// Frames is the concatenation of independently-encoded still images,
	// one per frame tick, in temporal order.
	Frames []byte

	// Tracks holds per-node audio buffers ordered by first capture.
	Tracks []*Track

	// FrameCount is the number of frame-capture events.
	FrameCount int64

	// SampleTicks is the number of audio-capture events on the unified
	// clock (per eligible node, not summed across nodes).
	SampleTicks int64
}

// Run records the timeline across the window in opts.
//
// Validation happens before any recording work: the schedule and window
// must be constructible and every output-enabled audio node must carry an
// encodable sample format.
//
// Parameters:
//   - tl: the timeline to drive
//   - opts: rates, window and frame stream format
//
// Returns:
//   - *Result: the frame stream and per-node audio buffers
//   - error: validation failure, or the first node evaluation or snapshot
//     failure, which aborts the run with no partial result
func Run(tl Timeline, opts Options) (*Result, error) {
	session := uuid.New()

	format := opts.ImageFormat
	if format == "" {
		format = render.FormatPNG
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Run",
		"session":      session.String(),
		"frame_rate":   opts.FrameRate,
		"sample_rate":  opts.SampleRate,
		"window_start": opts.Window.Start,
		"window_end":   opts.Window.End,
		"image_format": format,
	}).Info("Starting recording run")

	schedule, err := clock.NewSchedule(opts.FrameRate, opts.SampleRate)
	if err != nil {
		return nil, err
	}

	steps, err := schedule.Steps(opts.Window)
	if err != nil {
		return nil, err
	}

	if err := validateAudioNodes(tl.Nodes()); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Run",
			"session":  session.String(),
			"error":    err.Error(),
		}).Error("Audio node validation failed")
		return nil, err
	}

	var frames bytes.Buffer
	tracks := make(map[node.Handle]*Track)
	var order []*Track
	var frameCount, sampleTicks int64

	for progress := int64(0); progress < steps; progress++ {
		t := schedule.TimeAt(opts.Window.Start, progress)

		if err := tl.Advance(t); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Run",
				"session":  session.String(),
				"time":     t,
				"progress": progress,
				"error":    err.Error(),
			}).Error("Node evaluation failed, aborting recording")
			return nil, fmt.Errorf("%w: at t=%v: %v", ErrNodeEvaluation, t, err)
		}

		if schedule.CaptureSample(progress) {
			sampleTicks++
			if err := captureSamples(tl, t, tracks, &order); err != nil {
				return nil, err
			}
		}

		if schedule.CaptureFrame(progress) {
			frameCount++
			still, err := tl.SnapshotFrame(format)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Run",
					"session":  session.String(),
					"time":     t,
					"error":    err.Error(),
				}).Error("Frame snapshot failed, aborting recording")
				return nil, fmt.Errorf("snapshot frame at t=%v: %w", t, err)
			}
			frames.Write(still)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Run",
		"session":      session.String(),
		"steps":        steps,
		"frame_count":  frameCount,
		"sample_ticks": sampleTicks,
		"tracks":       len(order),
		"frame_bytes":  frames.Len(),
	}).Info("Recording run completed")

	return &Result{
		Frames:      frames.Bytes(),
		Tracks:      order,
		FrameCount:  frameCount,
		SampleTicks: sampleTicks,
	}, nil
}

// captureSamples quantizes the current samples of every eligible audio
// node at time t into its track buffer, creating buffers lazily on first
// capture.
func captureSamples(tl Timeline, t float64, tracks map[node.Handle]*Track, order *[]*Track) error {
	for _, n := range tl.Nodes() {
		src := n.AsAudioSource()
		if src == nil {
			continue
		}
		cfg := src.AudioConfig()
		if !cfg.OutputAudio || cfg.Channels <= 0 || !n.ActiveAt(t) {
			continue
		}

		track, ok := tracks[n.Handle()]
		if !ok {
			track = &Track{
				Handle: n.Handle(),
				Start:  n.StartTime(),
				Config: cfg,
				Buffer: &pcm.Buffer{},
			}
			tracks[n.Handle()] = track
			*order = append(*order, track)
		}

		for _, sample := range src.Samples() {
			if err := track.Buffer.AppendSample(sample, cfg.SampleSize); err != nil {
				return fmt.Errorf("encode sample for node %d: %w", n.Handle(), err)
			}
		}
	}
	return nil
}

// validateAudioNodes fails fast when any output-enabled audio node carries
// a sample format that cannot be captured or staged.
func validateAudioNodes(nodes []node.Node) error {
	for _, n := range nodes {
		src := n.AsAudioSource()
		if src == nil {
			continue
		}
		cfg := src.AudioConfig()
		if !cfg.OutputAudio || cfg.Channels <= 0 {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", n.Handle(), err)
		}
	}
	return nil
}
