package node

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/montage-av/montage/render"
)

// VideoBase provides the common state of video nodes: a placement
// configuration and a private render surface. Embed it and override
// AsVideoSource on the concrete type.
type VideoBase struct {
	Base
	cfg     VideoConfig
	surface *render.Surface
}

// NewVideoBase creates the embedded core of a video node and allocates its
// private surface at the configured dimensions.
func NewVideoBase(start, end float64, cfg VideoConfig) (VideoBase, error) {
	if err := cfg.Validate(); err != nil {
		return VideoBase{}, fmt.Errorf("video node config: %w", err)
	}
	surface, err := render.NewSurface(cfg.Width, cfg.Height)
	if err != nil {
		return VideoBase{}, err
	}
	return VideoBase{Base: NewBase(start, end), cfg: cfg, surface: surface}, nil
}

// VideoConfig returns the node's placement and dimensions.
func (v *VideoBase) VideoConfig() VideoConfig { return v.cfg }

// Surface returns the node's private render target.
func (v *VideoBase) Surface() *render.Surface { return v.surface }

// SolidColor is a video node that fills its rectangle with a single color.
// The surface is painted once at construction; evaluation is a no-op.
type SolidColor struct {
	VideoBase
	color color.RGBA
}

// NewSolidColor creates a solid color video node.
//
// Parameters:
//   - start, end: activity interval in seconds
//   - cfg: placement and dimensions on the canvas
//   - c: fill color
//
// Returns:
//   - *SolidColor: the constructed node
//   - error: dimension validation failure
func NewSolidColor(start, end float64, cfg VideoConfig, c color.RGBA) (*SolidColor, error) {
	base, err := NewVideoBase(start, end, cfg)
	if err != nil {
		return nil, err
	}

	n := &SolidColor{VideoBase: base, color: c}
	fb := n.surface.RGBA()
	draw.Draw(fb, fb.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	logrus.WithFields(logrus.Fields{
		"function": "NewSolidColor",
		"handle":   n.Handle(),
		"start":    start,
		"end":      end,
		"width":    cfg.Width,
		"height":   cfg.Height,
	}).Debug("Created solid color node")

	return n, nil
}

// Evaluate is a no-op; the fill never changes.
func (n *SolidColor) Evaluate(t float64) error { return nil }

// AsVideoSource returns the node's video capability.
func (n *SolidColor) AsVideoSource() VideoSource { return n }

// Still is a video node that shows one decoded image, scaled to the node's
// dimensions at construction. Evaluation is a no-op.
type Still struct {
	VideoBase
}

// NewStill creates a still image video node from an already decoded image.
func NewStill(start, end float64, cfg VideoConfig, img image.Image) (*Still, error) {
	base, err := NewVideoBase(start, end, cfg)
	if err != nil {
		return nil, err
	}

	n := &Still{VideoBase: base}
	fb := n.surface.RGBA()
	if img.Bounds().Dx() == cfg.Width && img.Bounds().Dy() == cfg.Height {
		draw.Draw(fb, fb.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(fb, fb.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	logrus.WithFields(logrus.Fields{
		"function":      "NewStill",
		"handle":        n.Handle(),
		"source_bounds": img.Bounds().String(),
		"width":         cfg.Width,
		"height":        cfg.Height,
	}).Debug("Created still image node")

	return n, nil
}

// Evaluate is a no-op; the image never changes.
func (n *Still) Evaluate(t float64) error { return nil }

// AsVideoSource returns the node's video capability.
func (n *Still) AsVideoSource() VideoSource { return n }
