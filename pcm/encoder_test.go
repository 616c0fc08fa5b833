package pcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSample8Bit(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		want   byte
	}{
		{name: "negative_full_scale", sample: -1.0, want: 0},
		{name: "silence_is_midpoint", sample: 0.0, want: 128},
		{name: "positive_full_scale_clamped", sample: 1.0, want: 255},
		{name: "half_scale", sample: 0.5, want: 192},
		{name: "below_range_clamped", sample: -2.0, want: 0},
		{name: "above_range_clamped", sample: 2.0, want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf Buffer
			require.NoError(t, buf.AppendSample(tt.sample, Width8))
			require.Equal(t, 1, buf.Len())
			assert.Equal(t, tt.want, buf.Bytes()[0])
		})
	}
}

func TestAppendSample16Bit(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		want   int16
	}{
		{name: "positive_full_scale_clamped", sample: 1.0, want: 32767},
		{name: "negative_full_scale", sample: -1.0, want: -32768},
		{name: "silence", sample: 0.0, want: 0},
		{name: "half_scale", sample: 0.5, want: 16384},
		{name: "above_range_clamped", sample: 1.5, want: 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf Buffer
			require.NoError(t, buf.AppendSample(tt.sample, Width16))
			require.Equal(t, 2, buf.Len())

			got := int16(binary.LittleEndian.Uint16(buf.Bytes()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendSample32Bit(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		want   int32
	}{
		{name: "positive_full_scale_clamped", sample: 1.0, want: 2147483647},
		{name: "negative_full_scale", sample: -1.0, want: -2147483648},
		{name: "silence", sample: 0.0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf Buffer
			require.NoError(t, buf.AppendSample(tt.sample, Width32))
			require.Equal(t, 4, buf.Len())

			got := int32(binary.LittleEndian.Uint32(buf.Bytes()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendSampleRejectsBadWidths(t *testing.T) {
	var buf Buffer

	err := buf.AppendSample(0.0, Width24)
	assert.True(t, errors.Is(err, ErrNotImplemented), "24-bit must report not implemented")

	err = buf.AppendSample(0.0, 5)
	assert.True(t, errors.Is(err, ErrInvalidSampleSize))

	assert.Zero(t, buf.Len(), "failed appends must not write bytes")
}

func TestValidateSampleSize(t *testing.T) {
	assert.NoError(t, ValidateSampleSize(8))
	assert.NoError(t, ValidateSampleSize(16))
	assert.NoError(t, ValidateSampleSize(32))
	assert.True(t, errors.Is(ValidateSampleSize(24), ErrNotImplemented))
	assert.True(t, errors.Is(ValidateSampleSize(5), ErrInvalidSampleSize))
	assert.True(t, errors.Is(ValidateSampleSize(0), ErrInvalidSampleSize))
}

func TestBufferAppendIsOrdered(t *testing.T) {
	var buf Buffer
	for _, s := range []float64{-1.0, 0.0, 1.0} {
		require.NoError(t, buf.AppendSample(s, Width8))
	}
	assert.Equal(t, []byte{0, 128, 255}, buf.Bytes())
}

func TestWriteWAVHeaderLayout(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	var out bytes.Buffer
	err := WriteWAV(&out, WAVConfig{Channels: 2, SampleRate: 8000, SampleSize: 16}, data)
	require.NoError(t, err)

	b := out.Bytes()
	require.Equal(t, 44+len(data), len(b))

	assert.Equal(t, "RIFF", string(b[0:4]))
	assert.Equal(t, uint32(36+len(data)), binary.LittleEndian.Uint32(b[4:8]))
	assert.Equal(t, "WAVE", string(b[8:12]))
	assert.Equal(t, "fmt ", string(b[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(b[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[20:22]), "format tag must be integer PCM")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(b[22:24]))
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(b[24:28]))
	assert.Equal(t, uint32(8000*2*2), binary.LittleEndian.Uint32(b[28:32]), "byte rate")
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(b[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(b[34:36]))
	assert.Equal(t, "data", string(b[36:40]))
	assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(b[40:44]))
	assert.Equal(t, data, b[44:])
}

func TestWriteWAVValidation(t *testing.T) {
	var out bytes.Buffer

	err := WriteWAV(&out, WAVConfig{Channels: 0, SampleRate: 8000, SampleSize: 16}, nil)
	assert.True(t, errors.Is(err, ErrInvalidChannelCount))

	err = WriteWAV(&out, WAVConfig{Channels: 1, SampleRate: 0, SampleSize: 16}, nil)
	assert.True(t, errors.Is(err, ErrInvalidSampleRate))

	err = WriteWAV(&out, WAVConfig{Channels: 1, SampleRate: 8000, SampleSize: 24}, nil)
	assert.True(t, errors.Is(err, ErrNotImplemented))

	assert.Zero(t, out.Len(), "nothing is written on validation failure")
}
