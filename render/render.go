package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/limits"
)

// Surface is a single framebuffer: the compositing canvas or one video
// node's private render target.
type Surface struct {
	fb *image.RGBA
}

// NewSurface allocates a surface of the given pixel dimensions.
//
// Returns an error when the dimensions fall outside the configured frame
// limits.
func NewSurface(width, height int) (*Surface, error) {
	if err := limits.ValidateFrameDimensions(width, height); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewSurface",
			"width":    width,
			"height":   height,
			"error":    err.Error(),
		}).Error("Surface dimension validation failed")
		return nil, fmt.Errorf("new surface: %w", err)
	}
	return &Surface{fb: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// Bounds returns the surface's pixel rectangle.
func (s *Surface) Bounds() image.Rectangle {
	return s.fb.Bounds()
}

// RGBA exposes the surface's backing framebuffer for direct pixel writes by
// node renderers. The recording core itself only touches pixels through a
// Context.
func (s *Surface) RGBA() *image.RGBA {
	return s.fb
}

// Context is the rendering collaborator consumed by the recording core.
//
// A Context owns a notion of the "current" surface, mirroring a graphics
// context that must be made current before any pixel access. Surface
// switching is strictly ordered: read a source surface, switch to the
// destination, then write; reads and writes are never interleaved.
type Context interface {
	// SwitchTo makes the given surface current.
	SwitchTo(s *Surface)

	// Clear fills the current surface with a solid color.
	Clear(c color.Color)

	// ReadPixels returns a copy of the current surface's composited pixels.
	ReadPixels() *image.RGBA

	// Draw writes src onto the current surface inside rect, scaling when
	// the source bounds differ from the rectangle.
	Draw(src image.Image, rect image.Rectangle)

	// EncodeStill serializes an image as an independently-decodable still
	// in the named format ("png" or "bmp").
	EncodeStill(img image.Image, format string) ([]byte, error)
}
