// Package pcm quantizes floating-point audio samples into fixed-width PCM
// words and stages them in per-node append-only buffers.
//
// Samples are nominally in [-1.0, 1.0]. Out-of-range inputs are clamped to
// the destination range, never wrapped. Multi-byte widths are packed
// little-endian.
package pcm

import (
	"fmt"
	"math"
)

// Supported sample widths in bits.
const (
	Width8  = 8
	Width16 = 16
	Width24 = 24 // recognized but not implemented
	Width32 = 32
)

// ValidateSampleSize checks that a sample width is encodable.
//
// Returns ErrNotImplemented for 24-bit PCM and ErrInvalidSampleSize for any
// width other than 8, 16, 24 or 32. Used to fail fast before any recording
// work begins.
func ValidateSampleSize(bits int) error {
	switch bits {
	case Width8, Width16, Width32:
		return nil
	case Width24:
		return fmt.Errorf("%w: 24-bit PCM", ErrNotImplemented)
	default:
		return fmt.Errorf("%w: %d bits (must be 8, 16, 24 or 32)", ErrInvalidSampleSize, bits)
	}
}

// Buffer accumulates packed PCM samples for one audio node. Append-only;
// bytes are written in capture order and finalized once recording ends.
type Buffer struct {
	data []byte
}

// Bytes returns the accumulated packed samples. The returned slice is the
// buffer's backing store and must not be modified by the caller.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// AppendSample quantizes a single floating-point sample and appends the
// packed bytes to the buffer.
//
// Encodings per width:
//   - 8-bit: unsigned, zero-centered at 128: round((1+sample) * 2^7),
//     truncated to [0, 255].
//   - 16-bit: signed, round(sample * 2^15) clamped to [-32768, 32767],
//     little-endian.
//   - 32-bit: signed, round(sample * 2^31) clamped to the int32 range,
//     little-endian.
//   - 24-bit: ErrNotImplemented.
//
// Parameters:
//   - sample: floating-point sample, nominally in [-1.0, 1.0]
//   - bits: sample width (8, 16 or 32)
//
// Returns:
//   - error: ErrNotImplemented or ErrInvalidSampleSize for bad widths
func (b *Buffer) AppendSample(sample float64, bits int) error {
	switch bits {
	case Width8:
		v := math.Round((1 + sample) * 128)
		b.data = append(b.data, uint8(clamp(v, 0, math.MaxUint8)))
		return nil

	case Width16:
		v := int16(clamp(math.Round(sample*32768), math.MinInt16, math.MaxInt16))
		b.data = append(b.data, byte(v), byte(v>>8))
		return nil

	case Width32:
		v := int32(clamp(math.Round(sample*2147483648), math.MinInt32, math.MaxInt32))
		b.data = append(b.data, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		return nil

	case Width24:
		return fmt.Errorf("%w: 24-bit PCM", ErrNotImplemented)

	default:
		return fmt.Errorf("%w: %d bits (must be 8, 16, 24 or 32)", ErrInvalidSampleSize, bits)
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
