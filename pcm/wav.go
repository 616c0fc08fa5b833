package pcm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/limits"
)

// WAVConfig describes the header of a canonical PCM container file: format
// tag, channel count, sample rate and sample width, followed by raw packed
// samples. This is the scratch staging format handed to the external
// encoder.
type WAVConfig struct {
	Channels   int
	SampleRate int
	SampleSize int // bits per sample
}

// riffHeaderSize is the byte count between the RIFF size field and the data
// chunk payload: "WAVE" + fmt chunk (8 + 16) + data chunk header (8).
const riffHeaderSize = 36

// WriteWAV serializes packed PCM bytes as a minimal canonical WAV file.
//
// The layout is the fixed 44-byte PCM header (RIFF/WAVE, fmt chunk with
// format tag 1, data chunk) followed by the raw little-endian samples,
// exactly what the external encoder expects on its file-backed audio
// inputs.
//
// Parameters:
//   - w: destination for the serialized container
//   - cfg: header fields (channels, sample rate, sample width)
//   - data: packed PCM sample bytes, already in capture order
//
// Returns:
//   - error: validation failure or any write error, wrapped with context
func WriteWAV(w io.Writer, cfg WAVConfig, data []byte) error {
	logrus.WithFields(logrus.Fields{
		"function":    "WriteWAV",
		"channels":    cfg.Channels,
		"sample_rate": cfg.SampleRate,
		"sample_size": cfg.SampleSize,
		"data_bytes":  len(data),
	}).Debug("Serializing PCM container")

	if err := ValidateSampleSize(cfg.SampleSize); err != nil {
		return err
	}
	if cfg.Channels < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChannelCount, cfg.Channels)
	}
	if err := limits.ValidateChannelCount(cfg.Channels); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChannelCount, err)
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, cfg.SampleRate)
	}

	bytesPerSample := cfg.SampleSize / 8
	blockAlign := cfg.Channels * bytesPerSample
	byteRate := cfg.SampleRate * blockAlign

	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(riffHeaderSize+len(data)))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16) // PCM fmt chunk size
	header = binary.LittleEndian.AppendUint16(header, 1)  // format tag: integer PCM
	header = binary.LittleEndian.AppendUint16(header, uint16(cfg.Channels))
	header = binary.LittleEndian.AppendUint32(header, uint32(cfg.SampleRate))
	header = binary.LittleEndian.AppendUint32(header, uint32(byteRate))
	header = binary.LittleEndian.AppendUint16(header, uint16(blockAlign))
	header = binary.LittleEndian.AppendUint16(header, uint16(cfg.SampleSize))
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(data)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}

	return nil
}
