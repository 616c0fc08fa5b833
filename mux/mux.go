package mux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/limits"
	"github.com/montage-av/montage/pcm"
)

// DefaultBinary is the external encoder executable resolved from PATH when
// a Muxer does not name one explicitly.
const DefaultBinary = "ffmpeg"

// AudioInput is one audio track handed to the encoder: its packed samples,
// container header fields, and the timeline offset the encoder pads with.
type AudioInput struct {
	Offset float64 // track start time in seconds
	Config pcm.WAVConfig
	Data   []byte
}

// Request describes one mux invocation.
type Request struct {
	FrameRate   int
	SampleRate  int
	Container   string // output container format, e.g. "mp4"
	ImageFormat string // still format of the frame stream: "png" or "bmp"
	Frames      []byte // concatenated still images, piped to stdin
	Audio       []AudioInput
	Options     []string // passthrough encoder options, appended verbatim
}

// Muxer executes external encoder invocations.
type Muxer struct {
	// Binary is the encoder executable; DefaultBinary when empty.
	Binary string

	// ScratchParent is the parent directory for scratch staging; the
	// system temporary directory when empty.
	ScratchParent string
}

// imagePipeDemuxer maps a still format to the encoder's image-sequence
// pipe demuxer name.
func imagePipeDemuxer(format string) string {
	switch format {
	case "bmp":
		return "bmp_pipe"
	default:
		return "png_pipe"
	}
}

// BuildArgs constructs the encoder argument list for a request, with each
// audio track read from the corresponding path in trackPaths.
//
// Argument order follows the encoder's input/output grammar: the piped
// image sequence input first, then each offset audio input, then output
// flags, passthrough options, the piped output and the diagnostic level.
func BuildArgs(req Request, trackPaths []string) []string {
	args := []string{
		"-r", strconv.Itoa(req.FrameRate),
		"-f", imagePipeDemuxer(req.ImageFormat),
		"-i", "pipe:0",
	}

	for i, track := range req.Audio {
		args = append(args,
			"-itsoffset", strconv.FormatFloat(track.Offset, 'f', -1, 64),
			"-i", trackPaths[i],
		)
	}

	args = append(args,
		"-y",
		"-r", strconv.Itoa(req.FrameRate),
		"-ar", strconv.Itoa(req.SampleRate),
		"-f", req.Container,
	)
	args = append(args, req.Options...)
	args = append(args, "pipe:1", "-v", "error")

	return args
}

// Run stages the audio tracks, executes the encoder and returns the muxed
// output bytes.
//
// The scratch directory is removed on every exit path. Standard input is
// fed from the frame stream while both output streams are collected;
// os/exec services all three pipes concurrently, so a large frame payload
// cannot deadlock against unread output.
//
// Parameters:
//   - ctx: cancels the external process; recordings otherwise run to
//     completion
//   - req: the invocation description
//
// Returns:
//   - []byte: the muxed file content from the encoder's standard output
//   - error: validation failure, staging failure, or a *RunError carrying
//     the exact command line and diagnostic text
func (m *Muxer) Run(ctx context.Context, req Request) ([]byte, error) {
	if len(req.Frames) == 0 && len(req.Audio) == 0 {
		return nil, ErrNoInput
	}
	if req.Container == "" {
		return nil, ErrMissingContainer
	}
	if err := limits.ValidatePassthroughOptions(req.Options); err != nil {
		return nil, err
	}

	binary := m.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	scratch, err := os.MkdirTemp(m.ScratchParent, "montage-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Muxer.Run",
				"scratch":  scratch,
				"error":    rmErr.Error(),
			}).Warn("Scratch directory cleanup failed")
		}
	}()

	trackPaths, err := stageTracks(scratch, req.Audio)
	if err != nil {
		return nil, err
	}

	args := BuildArgs(req, trackPaths)
	cmdline := binary + " " + strings.Join(args, " ")

	logrus.WithFields(logrus.Fields{
		"function":    "Muxer.Run",
		"command":     cmdline,
		"frame_bytes": len(req.Frames),
		"tracks":      len(req.Audio),
		"scratch":     scratch,
	}).Info("Running external encoder")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(req.Frames)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil || stderr.Len() > 0 {
		diagnostic := strings.TrimSpace(stderr.String())
		if diagnostic == "" {
			diagnostic = runErr.Error()
		}
		logrus.WithFields(logrus.Fields{
			"function":   "Muxer.Run",
			"command":    cmdline,
			"diagnostic": diagnostic,
		}).Error("External encoder failed")
		return nil, &RunError{Command: cmdline, Diagnostic: diagnostic}
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Muxer.Run",
		"output_bytes": stdout.Len(),
	}).Info("External encoder completed")

	return stdout.Bytes(), nil
}

// stageTracks serializes each audio input as a canonical WAV file in the
// scratch directory, returning the staged paths in track order.
func stageTracks(scratch string, tracks []AudioInput) ([]string, error) {
	paths := make([]string, len(tracks))
	for i, track := range tracks {
		path := filepath.Join(scratch, fmt.Sprintf("track_%d.wav", i))

		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("stage track %d: %w", i, err)
		}
		if err := pcm.WriteWAV(f, track.Config, track.Data); err != nil {
			f.Close()
			return nil, fmt.Errorf("stage track %d: %w", i, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("stage track %d: %w", i, err)
		}

		logrus.WithFields(logrus.Fields{
			"function":    "stageTracks",
			"track":       i,
			"path":        path,
			"offset":      track.Offset,
			"data_bytes":  len(track.Data),
			"channels":    track.Config.Channels,
			"sample_rate": track.Config.SampleRate,
		}).Debug("Staged audio track")

		paths[i] = path
	}
	return paths, nil
}
