package node

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montage-av/montage/pcm"
)

func TestHandlesAreUniqueAndNonZero(t *testing.T) {
	a := NewBase(0, 1)
	b := NewBase(0, 1)

	assert.NotZero(t, a.Handle())
	assert.NotZero(t, b.Handle())
	assert.NotEqual(t, a.Handle(), b.Handle())
}

func TestActiveAtIsHalfOpen(t *testing.T) {
	b := NewBase(2.0, 5.0)

	assert.False(t, b.ActiveAt(1.999))
	assert.True(t, b.ActiveAt(2.0), "start is inclusive")
	assert.True(t, b.ActiveAt(4.999))
	assert.False(t, b.ActiveAt(5.0), "end is exclusive")
}

func TestInvertedIntervalIsNeverActive(t *testing.T) {
	b := NewBase(5.0, 5.0)
	for _, tm := range []float64{0, 4.9, 5.0, 5.1} {
		assert.False(t, b.ActiveAt(tm))
	}

	inverted := NewBase(5.0, 2.0)
	for _, tm := range []float64{0, 2.0, 3.5, 5.0, 6.0} {
		assert.False(t, inverted.ActiveAt(tm))
	}
}

func TestBaseCapabilitiesAreNil(t *testing.T) {
	b := NewBase(0, 1)
	assert.Nil(t, b.AsVideoSource())
	assert.Nil(t, b.AsAudioSource())
}

func TestAudioConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AudioConfig
		wantErr error
	}{
		{
			name: "valid_16_bit_stereo",
			cfg:  AudioConfig{SampleSize: 16, SampleRate: 44100, Channels: 2},
		},
		{
			name:    "24_bit_not_implemented",
			cfg:     AudioConfig{SampleSize: 24, SampleRate: 44100, Channels: 2},
			wantErr: pcm.ErrNotImplemented,
		},
		{
			name:    "bad_width",
			cfg:     AudioConfig{SampleSize: 5, SampleRate: 44100, Channels: 2},
			wantErr: pcm.ErrInvalidSampleSize,
		},
		{
			name:    "zero_sample_rate",
			cfg:     AudioConfig{SampleSize: 16, SampleRate: 0, Channels: 2},
			wantErr: ErrInvalidAudioConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSolidColorFillsSurface(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	n, err := NewSolidColor(0, 3, VideoConfig{X: 10, Y: 20, Width: 4, Height: 4}, red)
	require.NoError(t, err)

	require.NotNil(t, n.AsVideoSource())
	assert.Nil(t, n.AsAudioSource())

	require.NoError(t, n.Evaluate(1.0))
	fb := n.Surface().RGBA()
	assert.Equal(t, red, fb.RGBAAt(0, 0))
	assert.Equal(t, red, fb.RGBAAt(3, 3))

	assert.Equal(t, image.Rect(10, 20, 14, 24), n.VideoConfig().PlacementRect())
}

func TestStillScalesSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}

	n, err := NewStill(0, 1, VideoConfig{Width: 4, Height: 4}, src)
	require.NoError(t, err)

	fb := n.Surface().RGBA()
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, fb.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, fb.RGBAAt(3, 3))
}

func TestToneEvaluate(t *testing.T) {
	cfg := AudioConfig{SampleSize: 16, SampleRate: 8000, Channels: 2, OutputAudio: true}
	n, err := NewTone(1.0, 3.0, cfg, 440, 0.5)
	require.NoError(t, err)

	require.NotNil(t, n.AsAudioSource())
	assert.Nil(t, n.AsVideoSource())

	// At the node's own start time, the phase is zero.
	require.NoError(t, n.Evaluate(1.0))
	samples := n.Samples()
	require.Len(t, samples, 2)
	assert.InDelta(t, 0.0, samples[0], 1e-12)
	assert.Equal(t, samples[0], samples[1], "all channels carry the same signal")

	// A quarter period into a 440Hz tone sits at the positive peak.
	quarter := 1.0 / (4 * 440.0)
	require.NoError(t, n.Evaluate(1.0+quarter))
	assert.InDelta(t, 0.5, n.Samples()[0], 1e-9)
}

func TestToneValidation(t *testing.T) {
	cfg := AudioConfig{SampleSize: 16, SampleRate: 8000, Channels: 1}

	_, err := NewTone(0, 1, cfg, 0, 0.5)
	assert.True(t, errors.Is(err, ErrInvalidToneConfig))

	_, err = NewTone(0, 1, cfg, 440, 1.5)
	assert.True(t, errors.Is(err, ErrInvalidToneConfig))

	bad := AudioConfig{SampleSize: 24, SampleRate: 8000, Channels: 1}
	_, err = NewTone(0, 1, bad, 440, 0.5)
	assert.True(t, errors.Is(err, pcm.ErrNotImplemented))
}

func TestResampleLinearIdentity(t *testing.T) {
	in := []float64{0.1, -0.2, 0.3, -0.4}
	out, err := resampleLinear(in, 2, 48000, 48000)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Identity copies, never aliases.
	out[0] = 99
	assert.Equal(t, 0.1, in[0])
}

func TestResampleLinearDoublesFrames(t *testing.T) {
	in := []float64{0.0, 1.0}
	out, err := resampleLinear(in, 1, 4000, 8000)
	require.NoError(t, err)

	require.Len(t, out, 4)
	assert.Equal(t, 0.0, out[0])
	assert.InDelta(t, 0.5, out[1], 1e-12)
	assert.Equal(t, 1.0, out[2], "past the final frame the last value holds")
	assert.Equal(t, 1.0, out[3])
}

func TestResampleLinearHalvesFrames(t *testing.T) {
	in := make([]float64, 8)
	for i := range in {
		in[i] = math.Sin(float64(i))
	}
	out, err := resampleLinear(in, 1, 8000, 4000)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestResampleLinearValidation(t *testing.T) {
	_, err := resampleLinear([]float64{1, 2, 3}, 2, 8000, 8000)
	assert.True(t, errors.Is(err, ErrInvalidAudioConfig), "misaligned input")

	_, err = resampleLinear([]float64{1, 2}, 1, 0, 8000)
	assert.True(t, errors.Is(err, ErrInvalidAudioConfig))

	_, err = resampleLinear([]float64{1, 2}, 0, 8000, 8000)
	assert.True(t, errors.Is(err, ErrInvalidAudioConfig))
}

func TestOpusClipRejectsBadInput(t *testing.T) {
	cfg := AudioConfig{SampleSize: 16, SampleRate: 48000, Channels: 1, OutputAudio: true}

	_, err := NewOpusClip(0, 1, cfg, "testdata/does-not-exist.ogg")
	assert.Error(t, err)
}

func TestIsOpusHeaderPacket(t *testing.T) {
	assert.True(t, isOpusHeaderPacket([]byte("OpusHead\x01")))
	assert.True(t, isOpusHeaderPacket([]byte("OpusTags")))
	assert.False(t, isOpusHeaderPacket([]byte("OpusH")))
	assert.False(t, isOpusHeaderPacket([]byte{0xfc, 0xff, 0xfe}))
}

func TestPacketSampleCount(t *testing.T) {
	tests := []struct {
		name    string
		segment []byte
		rate    int
		want    int
	}{
		{
			name:    "celt_fullband_20ms_single_frame",
			segment: []byte{31 << 3},
			rate:    48000,
			want:    960,
		},
		{
			name:    "celt_fullband_10ms_single_frame",
			segment: []byte{30 << 3},
			rate:    48000,
			want:    480,
		},
		{
			name:    "silk_narrowband_60ms_single_frame",
			segment: []byte{3 << 3},
			rate:    8000,
			want:    480,
		},
		{
			name:    "silk_wideband_20ms_two_frames",
			segment: []byte{9<<3 | 1},
			rate:    16000,
			want:    640,
		},
		{
			name:    "hybrid_fullband_10ms_single_frame",
			segment: []byte{14 << 3},
			rate:    48000,
			want:    480,
		},
		{
			name:    "arbitrary_count_code_three_frames",
			segment: []byte{31<<3 | 3, 3},
			rate:    48000,
			want:    2880,
		},
		{
			name:    "count_code_three_missing_count_byte",
			segment: []byte{31<<3 | 3},
			rate:    48000,
			want:    0,
		},
		{
			name:    "empty_segment",
			segment: nil,
			rate:    48000,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packetSampleCount(tt.segment, tt.rate))
		})
	}
}
