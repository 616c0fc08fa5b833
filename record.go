package montage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/clock"
	"github.com/montage-av/montage/limits"
	"github.com/montage-av/montage/mux"
	"github.com/montage-av/montage/pcm"
	"github.com/montage-av/montage/record"
	"github.com/montage-av/montage/render"
)

// EncoderRunner executes external encoder invocations. Satisfied by
// *mux.Muxer; substitutable for testing.
type EncoderRunner interface {
	Run(ctx context.Context, req mux.Request) ([]byte, error)
}

// RecordOptions adjusts one recording run. The zero value records the
// whole composition with default settings.
type RecordOptions struct {
	// Start is the timeline instant recording begins at.
	Start float64

	// End is the timeline instant recording stops at, inclusive. The zero
	// value selects the composition's duration, so a zero-length window
	// anchored at the origin is not expressible here; use Screenshot to
	// capture the single frame at t=0. Single-instant windows at any
	// later time are expressed as End == Start.
	End float64

	// ImageFormat is the still format of the frame stream piped to the
	// encoder: render.FormatPNG (default) or render.FormatBMP.
	ImageFormat string

	// Options are opaque encoder flags appended verbatim and unvalidated.
	Options []string

	// Encoder substitutes the external encoder runner. Defaults to
	// &mux.Muxer{}.
	Encoder EncoderRunner
}

// Record renders the composition across a time window and writes the muxed
// result to path. The container format is inferred from the path's
// extension.
//
// The destination is created and written only after the external encoder
// reports success; failures at any stage leave no partial file.
//
// Parameters:
//   - ctx: cancels the external encoder process
//   - path: destination file; its extension names the container format
//   - frameRate, sampleRate: output rates, positive integer Hz
//   - opts: window, frame stream format and passthrough options; nil for
//     defaults
//
// Returns:
//   - error: validation, recording, encoder or destination write failure
func (m *Composition) Record(ctx context.Context, path string, frameRate, sampleRate int, opts *RecordOptions) error {
	container := strings.TrimPrefix(filepath.Ext(path), ".")
	if container == "" {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, path)
	}

	out, err := m.renderAndMux(ctx, container, frameRate, sampleRate, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Composition.Record",
		"destination": path,
		"container":   container,
		"bytes":       len(out),
	}).Info("Recording written")

	return nil
}

// RecordTo renders the composition and writes the muxed result to an open
// writable sink, with an explicit container format.
func (m *Composition) RecordTo(ctx context.Context, w io.Writer, container string, frameRate, sampleRate int, opts *RecordOptions) error {
	if w == nil {
		return ErrNilDestination
	}

	out, err := m.renderAndMux(ctx, container, frameRate, sampleRate, opts)
	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

// renderAndMux runs the recording pipeline and the external encoder,
// returning the muxed file content. Nothing is written to any destination
// here; callers only write after success.
func (m *Composition) renderAndMux(ctx context.Context, container string, frameRate, sampleRate int, opts *RecordOptions) ([]byte, error) {
	if opts == nil {
		opts = &RecordOptions{}
	}

	// Passthrough options are bounded before any rendering work begins;
	// the muxer re-checks them for callers invoking it directly.
	if err := limits.ValidatePassthroughOptions(opts.Options); err != nil {
		return nil, err
	}

	end := opts.End
	if end == 0 {
		end = m.Duration()
	}
	format := opts.ImageFormat
	if format == "" {
		format = render.FormatPNG
	}

	result, err := record.Run(m, record.Options{
		FrameRate:   frameRate,
		SampleRate:  sampleRate,
		Window:      clock.Window{Start: opts.Start, End: end},
		ImageFormat: format,
	})
	if err != nil {
		return nil, err
	}

	audio := make([]mux.AudioInput, len(result.Tracks))
	for i, track := range result.Tracks {
		audio[i] = mux.AudioInput{
			Offset: track.Start,
			Config: pcm.WAVConfig{
				Channels:   track.Config.Channels,
				SampleRate: track.Config.SampleRate,
				SampleSize: track.Config.SampleSize,
			},
			Data: track.Buffer.Bytes(),
		}
	}

	encoder := opts.Encoder
	if encoder == nil {
		encoder = &mux.Muxer{}
	}

	return encoder.Run(ctx, mux.Request{
		FrameRate:   frameRate,
		SampleRate:  sampleRate,
		Container:   container,
		ImageFormat: format,
		Frames:      result.Frames,
		Audio:       audio,
		Options:     opts.Options,
	})
}
