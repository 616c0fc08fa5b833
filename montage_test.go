package montage

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montage-av/montage/limits"
	"github.com/montage-av/montage/mux"
	"github.com/montage-av/montage/node"
)

func mustSolid(t *testing.T, start, end float64, cfg node.VideoConfig, c color.RGBA) *node.SolidColor {
	t.Helper()
	n, err := node.NewSolidColor(start, end, cfg, c)
	require.NoError(t, err)
	return n
}

func mustTone(t *testing.T, start, end float64, cfg node.AudioConfig) *node.Tone {
	t.Helper()
	n, err := node.NewTone(start, end, cfg, 440, 0.5)
	require.NoError(t, err)
	return n
}

func TestNewValidatesCanvas(t *testing.T) {
	_, err := New(0, 100)
	assert.Error(t, err)

	m, err := New(64, 48)
	require.NoError(t, err)
	assert.Equal(t, 64, m.Width())
	assert.Equal(t, 48, m.Height())
}

func TestCompositionsOwnTheirNodeCollections(t *testing.T) {
	a, err := New(8, 8)
	require.NoError(t, err)
	b, err := New(8, 8)
	require.NoError(t, err)

	a.Add(mustTone(t, 0, 1, node.AudioConfig{SampleSize: 16, SampleRate: 8000, Channels: 1}))

	assert.Len(t, a.Nodes(), 1)
	assert.Empty(t, b.Nodes(), "node collections are never shared")
}

func TestDuration(t *testing.T) {
	m, err := New(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Duration(), "empty composition has zero duration")

	m.Add(mustTone(t, 0, 3, node.AudioConfig{SampleSize: 16, SampleRate: 8000, Channels: 1}))
	m.Add(mustSolid(t, 1, 7.5, node.VideoConfig{Width: 2, Height: 2}, color.RGBA{A: 255}))
	assert.Equal(t, 7.5, m.Duration())
}

func TestTickCompositesActiveVideoNodes(t *testing.T) {
	m, err := New(4, 4, WithBackground(color.RGBA{B: 255, A: 255}))
	require.NoError(t, err)

	red := color.RGBA{R: 255, A: 255}
	m.Add(mustSolid(t, 0, 2, node.VideoConfig{X: 0, Y: 0, Width: 2, Height: 2}, red))

	require.NoError(t, m.Advance(1.0))

	still, err := m.SnapshotFrame("png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, still[:4])

	// Past the node's interval only the background remains.
	require.NoError(t, m.Advance(2.0))
	after, err := m.SnapshotFrame("png")
	require.NoError(t, err)
	assert.NotEqual(t, still, after, "inactive node no longer composited")
}

func TestScreenshotToEncodesSingleFrame(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.ScreenshotTo(1.0, &buf, "png"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
	assert.Equal(t, 1.0, m.CurrentTime())
}

func TestScreenshotInfersFormatFromExtension(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "shot.bmp")
	require.NoError(t, m.Screenshot(0.5, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{'B', 'M'}, data[:2])

	err = m.Screenshot(0.5, filepath.Join(t.TempDir(), "no-extension"))
	assert.True(t, errors.Is(err, ErrUnknownExtension))
}

// fakeEncoder records the request it received and returns scripted output.
type fakeEncoder struct {
	req  mux.Request
	out  []byte
	err  error
	runs int
}

func (f *fakeEncoder) Run(ctx context.Context, req mux.Request) ([]byte, error) {
	f.runs++
	f.req = req
	return f.out, f.err
}

func TestRecordWritesMuxedOutput(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	m.Add(mustTone(t, 2.0, 5.0, node.AudioConfig{
		SampleSize: 16, SampleRate: 8000, Channels: 2, OutputAudio: true,
	}))

	enc := &fakeEncoder{out: []byte("MUXED")}
	path := filepath.Join(t.TempDir(), "out.mp4")

	err = m.Record(context.Background(), path, 24, 8000, &RecordOptions{
		End:     5.0,
		Encoder: enc,
		Options: []string{"-b:a", "128k"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("MUXED"), data)

	require.Equal(t, 1, enc.runs)
	assert.Equal(t, "mp4", enc.req.Container)
	assert.Equal(t, 24, enc.req.FrameRate)
	assert.Equal(t, 8000, enc.req.SampleRate)
	assert.Equal(t, []string{"-b:a", "128k"}, enc.req.Options)
	assert.NotEmpty(t, enc.req.Frames)

	// The tone starts mid-timeline: the track carries its offset and only
	// the samples captured while active. Leading silence is the encoder's
	// job, via the offset.
	require.Len(t, enc.req.Audio, 1)
	assert.Equal(t, 2.0, enc.req.Audio[0].Offset)
	assert.Equal(t, 3*8000*2*2, len(enc.req.Audio[0].Data))
}

func TestRecordDefaultsEndToDuration(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)
	m.Add(mustTone(t, 0, 2.0, node.AudioConfig{
		SampleSize: 16, SampleRate: 8000, Channels: 1, OutputAudio: true,
	}))

	enc := &fakeEncoder{out: []byte("X")}
	var buf bytes.Buffer
	require.NoError(t, m.RecordTo(context.Background(), &buf, "mp4", 24, 8000, &RecordOptions{Encoder: enc}))

	// Window [0, 2.0] at 8000Hz: floor(2*8000)+1 ticks, minus the final
	// tick at t=2.0 where the half-open node is already inactive.
	assert.Equal(t, 2*8000*2, len(enc.req.Audio[0].Data))
}

func TestRecordLeavesNoFileOnEncoderFailure(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	enc := &fakeEncoder{err: errors.New("scripted encoder failure")}
	path := filepath.Join(t.TempDir(), "out.mp4")

	err = m.Record(context.Background(), path, 24, 8000, &RecordOptions{End: 0.5, Encoder: enc})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed recordings must not create the destination")
}

func TestRecordRejectsMissingExtension(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	err = m.Record(context.Background(), filepath.Join(t.TempDir(), "output"), 24, 8000, nil)
	assert.True(t, errors.Is(err, ErrUnknownExtension))
}

func TestScreenshotFailureLeavesNoFile(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "shot.jpg")
	err = m.Screenshot(0.5, path)
	require.Error(t, err, "jpg is not a supported still format")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed screenshots must not create the destination")
}

func TestRecordRejectsOversizedOptionsBeforeRendering(t *testing.T) {
	m, err := New(4, 4)
	require.NoError(t, err)
	m.Add(mustTone(t, 0, 1.0, node.AudioConfig{
		SampleSize: 16, SampleRate: 8000, Channels: 1, OutputAudio: true,
	}))

	options := make([]string, limits.MaxPassthroughOptions+1)
	for i := range options {
		options[i] = "-flag"
	}

	enc := &fakeEncoder{out: []byte("X")}
	path := filepath.Join(t.TempDir(), "out.mp4")
	err = m.Record(context.Background(), path, 24, 8000, &RecordOptions{
		End:     1.0,
		Options: options,
		Encoder: enc,
	})
	require.Error(t, err)

	assert.Zero(t, enc.runs, "the encoder must never run for oversized option lists")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
