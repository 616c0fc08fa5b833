package node

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pion/opus"
	"github.com/pion/opus/pkg/oggreader"
	"github.com/sirupsen/logrus"
)

// opusDecodeBufferSize holds the longest Opus packet duration (60ms) at
// 48kHz, two bytes per sample.
const opusDecodeBufferSize = 2880 * 2

// OpusClip is an audio node that serves samples decoded from an Ogg/Opus
// file. The whole clip is decoded at construction, resampled to the node's
// configured rate, and indexed by the virtual clock during evaluation.
//
// The pure Go decoder produces a mono signal; the clip replicates it across
// the node's configured channels.
type OpusClip struct {
	AudioBase
	samples []float64 // interleaved at cfg.SampleRate
	frames  int
}

// NewOpusClip creates a clip node by decoding the Ogg/Opus file at path.
//
// Parameters:
//   - start, end: activity interval on the timeline in seconds
//   - cfg: sample format the clip is served in
//   - path: Ogg/Opus source file
//
// Returns:
//   - *OpusClip: the constructed node with fully decoded samples
//   - error: open, container or decode failures, or an empty clip
func NewOpusClip(start, end float64, cfg AudioConfig, path string) (*OpusClip, error) {
	logrus.WithFields(logrus.Fields{
		"function": "NewOpusClip",
		"path":     path,
		"start":    start,
		"end":      end,
	}).Info("Decoding opus clip")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opus clip: %w", err)
	}
	defer f.Close()

	clip, err := NewOpusClipFromReader(start, end, cfg, f)
	if err != nil {
		return nil, fmt.Errorf("opus clip %q: %w", path, err)
	}
	return clip, nil
}

// NewOpusClipFromReader creates a clip node by decoding an Ogg/Opus stream.
func NewOpusClipFromReader(start, end float64, cfg AudioConfig, r io.Reader) (*OpusClip, error) {
	base, err := NewAudioBase(start, end, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrClipChannelCount, cfg.Channels)
	}

	decoded, decodeRate, err := decodeOggOpus(r)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, ErrEmptyClip
	}

	mono, err := resampleLinear(decoded, 1, decodeRate, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	// Replicate the mono signal across the node's channels.
	samples := make([]float64, 0, len(mono)*cfg.Channels)
	for _, s := range mono {
		for ch := 0; ch < cfg.Channels; ch++ {
			samples = append(samples, s)
		}
	}

	clip := &OpusClip{AudioBase: base, samples: samples, frames: len(mono)}

	logrus.WithFields(logrus.Fields{
		"function":    "NewOpusClipFromReader",
		"handle":      clip.Handle(),
		"decode_rate": decodeRate,
		"node_rate":   cfg.SampleRate,
		"frames":      clip.frames,
		"channels":    cfg.Channels,
	}).Info("Opus clip decoded")

	return clip, nil
}

// decodeOggOpus reads every Opus packet from an Ogg container and decodes
// it to normalized mono samples. Returns the samples and the decoder's
// output rate.
func decodeOggOpus(r io.Reader) ([]float64, int, error) {
	ogg, _, err := oggreader.NewWith(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read ogg container: %w", err)
	}

	decoder := opus.NewDecoder()
	out := make([]byte, opusDecodeBufferSize)
	rate := 48000

	var samples []float64
	for {
		segments, _, err := ogg.ParseNextPage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("parse ogg page: %w", err)
		}

		for _, segment := range segments {
			bandwidth, _, err := decoder.Decode(segment, out)
			if err != nil {
				if isOpusHeaderPacket(segment) {
					continue
				}
				return nil, 0, fmt.Errorf("opus decode: %w", err)
			}
			rate = bandwidth.SampleRate()

			// Only the packet's own samples are consumed; the remainder of
			// the buffer holds stale bytes from previous decodes.
			limit := packetSampleCount(segment, rate) * 2
			if limit > len(out) {
				limit = len(out)
			}
			for i := 0; i+1 < limit; i += 2 {
				v := int16(out[i]) | int16(out[i+1])<<8
				samples = append(samples, float64(v)/float64(math.MaxInt16+1))
			}
		}
	}

	return samples, rate, nil
}

// packetSampleCount derives how many samples a packet decodes to at the
// given rate from its TOC byte (RFC 6716 section 3.1): the config field
// names the frame duration and the count code names the frames per packet.
func packetSampleCount(segment []byte, sampleRate int) int {
	if len(segment) < 1 {
		return 0
	}
	toc := segment[0]
	config := toc >> 3

	// Frame duration in 2.5ms units.
	var units int
	switch {
	case config < 12: // SILK: 10, 20, 40, 60 ms
		units = []int{4, 8, 16, 24}[config&0x3]
	case config < 16: // Hybrid: 10, 20 ms
		units = []int{4, 8}[config&0x1]
	default: // CELT: 2.5, 5, 10, 20 ms
		units = []int{1, 2, 4, 8}[config&0x3]
	}
	perFrame := sampleRate * units / 400

	var frames int
	switch toc & 0x3 {
	case 0:
		frames = 1
	case 1, 2:
		frames = 2
	default:
		if len(segment) < 2 {
			return 0
		}
		frames = int(segment[1] & 0x3F)
	}

	return perFrame * frames
}

// isOpusHeaderPacket reports whether a segment is one of the two Ogg/Opus
// stream header packets (OpusHead / OpusTags), which carry no audio.
func isOpusHeaderPacket(segment []byte) bool {
	return len(segment) >= 8 &&
		(string(segment[:8]) == "OpusHead" || string(segment[:8]) == "OpusTags")
}

// Evaluate looks up the clip sample frame for time t relative to the
// node's start and publishes its per-channel values. Times beyond the
// decoded material hold the final frame.
func (n *OpusClip) Evaluate(t float64) error {
	frame := int(math.Round((t - n.StartTime()) * float64(n.cfg.SampleRate)))
	if frame < 0 {
		frame = 0
	}
	if frame >= n.frames {
		frame = n.frames - 1
	}

	base := frame * n.cfg.Channels
	for ch := 0; ch < n.cfg.Channels; ch++ {
		n.current[ch] = n.samples[base+ch]
	}
	return nil
}

// AsAudioSource returns the node's audio capability.
func (n *OpusClip) AsAudioSource() AudioSource { return n }
