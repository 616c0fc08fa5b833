package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Supported still-image formats for the encoder's image-sequence input.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// SoftwareContext is a pure-CPU rendering context. Every surface is an
// in-memory RGBA framebuffer; compositing uses golang.org/x/image/draw.
//
// Not safe for concurrent use: the context is exclusively owned by one
// timeline and driven from the single recording loop.
type SoftwareContext struct {
	current *Surface
}

// NewSoftwareContext creates a CPU rendering context with no current
// surface. Callers must SwitchTo a surface before pixel operations.
func NewSoftwareContext() *SoftwareContext {
	logrus.WithFields(logrus.Fields{
		"function": "NewSoftwareContext",
	}).Debug("Creating software rendering context")
	return &SoftwareContext{}
}

// SwitchTo makes the given surface current.
func (c *SoftwareContext) SwitchTo(s *Surface) {
	c.current = s
}

// Current returns the current surface, or nil when none is current.
func (c *SoftwareContext) Current() *Surface {
	return c.current
}

// Clear fills the current surface with a solid color. A nil current
// surface is a programming error and panics, matching a context that has
// not been made current.
func (c *SoftwareContext) Clear(col color.Color) {
	fb := c.current.fb
	draw.Draw(fb, fb.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// ReadPixels returns a copy of the current surface's pixels. The copy keeps
// the recording core's captured frames independent of later compositing.
func (c *SoftwareContext) ReadPixels() *image.RGBA {
	src := c.current.fb
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Draw writes src onto the current surface inside rect. Sources whose
// bounds match the rectangle are copied; mismatched bounds are scaled with
// bilinear interpolation.
func (c *SoftwareContext) Draw(src image.Image, rect image.Rectangle) {
	fb := c.current.fb
	if src.Bounds().Dx() == rect.Dx() && src.Bounds().Dy() == rect.Dy() {
		draw.Draw(fb, rect, src, src.Bounds().Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Scale(fb, rect, src, src.Bounds(), draw.Over, nil)
}

// EncodeStill serializes an image as a single still frame in the named
// format.
//
// Parameters:
//   - img: the composited pixels to serialize
//   - format: FormatPNG or FormatBMP
//
// Returns:
//   - []byte: the encoded still image
//   - error: ErrUnsupportedImageFormat for unknown formats, or the
//     underlying encoder error
func (c *SoftwareContext) EncodeStill(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		logrus.WithFields(logrus.Fields{
			"function": "EncodeStill",
			"format":   format,
			"error":    "unsupported image format",
		}).Error("Still image format validation failed")
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("encode %s still: %w", format, err)
	}
	return buf.Bytes(), nil
}
