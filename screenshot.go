package montage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Screenshot advances the clock to t, ticks once, and writes the single
// composited frame to path. The image format is inferred from the path's
// extension.
//
// The frame is rendered and encoded in memory first; the destination is
// created only after encoding succeeds, so a failed screenshot leaves no
// file behind.
func (m *Composition) Screenshot(t float64, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, path)
	}

	var buf bytes.Buffer
	if err := m.ScreenshotTo(t, &buf, format); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Composition.Screenshot",
		"time":        t,
		"destination": path,
		"format":      format,
	}).Info("Screenshot written")

	return nil
}

// ScreenshotTo advances the clock to t, ticks once, and writes the single
// composited frame to an open writable sink in the given format.
func (m *Composition) ScreenshotTo(t float64, w io.Writer, format string) error {
	if w == nil {
		return ErrNilDestination
	}

	if err := m.Advance(t); err != nil {
		return err
	}

	still, err := m.SnapshotFrame(format)
	if err != nil {
		return err
	}

	if _, err := w.Write(still); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}
