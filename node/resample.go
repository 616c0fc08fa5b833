package node

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// resampleLinear converts interleaved samples from inRate to outRate using
// linear interpolation.
//
// Parameters:
//   - input: interleaved samples, len divisible by channels
//   - channels: number of interleaved channels
//   - inRate, outRate: source and destination sample rates in Hz
//
// Returns:
//   - []float64: interleaved samples at outRate
//   - error: invalid rates, channel count, or misaligned input
func resampleLinear(input []float64, channels, inRate, outRate int) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: resample rates %d -> %d", ErrInvalidAudioConfig, inRate, outRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: resample channels %d", ErrInvalidAudioConfig, channels)
	}
	if len(input)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples not aligned to %d channels", ErrInvalidAudioConfig, len(input), channels)
	}

	if inRate == outRate {
		out := make([]float64, len(input))
		copy(out, input)
		return out, nil
	}

	inFrames := len(input) / channels
	outFrames := int(float64(inFrames)*float64(outRate)/float64(inRate) + 0.5)
	out := make([]float64, 0, outFrames*channels)

	logrus.WithFields(logrus.Fields{
		"function":   "resampleLinear",
		"in_rate":    inRate,
		"out_rate":   outRate,
		"channels":   channels,
		"in_frames":  inFrames,
		"out_frames": outFrames,
	}).Debug("Resampling clip samples")

	ratio := float64(inRate) / float64(outRate)
	for frame := 0; frame < outFrames; frame++ {
		pos := float64(frame) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		for ch := 0; ch < channels; ch++ {
			if idx >= inFrames-1 {
				out = append(out, input[(inFrames-1)*channels+ch])
				continue
			}
			s0 := input[idx*channels+ch]
			s1 := input[(idx+1)*channels+ch]
			out = append(out, s0*(1-frac)+s1*frac)
		}
	}

	return out, nil
}
