package montage

import (
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/node"
	"github.com/montage-av/montage/render"
)

// Composition is a video-editing timeline: an ordered set of nodes, a
// shared virtual clock and a canvas configuration. It implements the
// recording pipeline's Timeline interface.
//
// A Composition owns its node collection outright; collections are never
// shared between compositions. Not safe for concurrent use: the clock,
// node state and surfaces are only touched from the single recording loop.
type Composition struct {
	width      int
	height     int
	background color.RGBA

	nodes       []node.Node
	currentTime float64

	ctx    render.Context
	canvas *render.Surface
}

// Option adjusts a Composition at construction.
type Option func(*Composition)

// WithBackground sets the canvas background color. Defaults to opaque
// black.
func WithBackground(c color.RGBA) Option {
	return func(m *Composition) { m.background = c }
}

// WithRenderContext substitutes the rendering collaborator. Defaults to
// the CPU software context.
func WithRenderContext(ctx render.Context) Option {
	return func(m *Composition) { m.ctx = ctx }
}

// New creates a composition with an empty, independently owned node
// collection and a canvas of the given pixel dimensions.
//
// Parameters:
//   - width, height: canvas dimensions in pixels
//   - opts: background and rendering context options
//
// Returns:
//   - *Composition: the constructed composition
//   - error: canvas dimension validation failure
func New(width, height int, opts ...Option) (*Composition, error) {
	canvas, err := render.NewSurface(width, height)
	if err != nil {
		return nil, fmt.Errorf("composition canvas: %w", err)
	}

	m := &Composition{
		width:      width,
		height:     height,
		background: color.RGBA{A: 255},
		nodes:      make([]node.Node, 0),
		ctx:        render.NewSoftwareContext(),
		canvas:     canvas,
	}
	for _, opt := range opts {
		opt(m)
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"width":    width,
		"height":   height,
	}).Info("Created composition")

	return m, nil
}

// Add appends a node to the composition's timeline.
func (m *Composition) Add(n node.Node) {
	m.nodes = append(m.nodes, n)
	logrus.WithFields(logrus.Fields{
		"function": "Composition.Add",
		"handle":   n.Handle(),
		"start":    n.StartTime(),
		"end":      n.EndTime(),
	}).Debug("Added node to composition")
}

// Nodes returns the composition's nodes in insertion order.
func (m *Composition) Nodes() []node.Node {
	return m.nodes
}

// Width returns the canvas width in pixels.
func (m *Composition) Width() int { return m.width }

// Height returns the canvas height in pixels.
func (m *Composition) Height() int { return m.height }

// CurrentTime returns the virtual clock value in seconds.
func (m *Composition) CurrentTime() float64 { return m.currentTime }

// Duration returns the end time of the latest-ending node, or zero for an
// empty composition.
func (m *Composition) Duration() float64 {
	duration := 0.0
	for _, n := range m.nodes {
		if n.EndTime() > duration {
			duration = n.EndTime()
		}
	}
	return duration
}

// Tick evaluates every node active at the current clock value and then
// composites the video output onto the canvas.
func (m *Composition) Tick() error {
	for _, n := range m.nodes {
		if !n.ActiveAt(m.currentTime) {
			continue
		}
		if err := n.Evaluate(m.currentTime); err != nil {
			return fmt.Errorf("evaluate node %d: %w", n.Handle(), err)
		}
	}

	m.draw()
	return nil
}

// Advance sets the virtual clock to t and ticks once. Implements the
// recording pipeline's Timeline interface.
func (m *Composition) Advance(t float64) error {
	m.currentTime = t
	return m.Tick()
}

// draw composites every active video node onto the canvas, in insertion
// order, over the background.
//
// Surface switching is strictly ordered: a source surface is made current
// and read in full before the canvas becomes current again for the write.
func (m *Composition) draw() {
	m.ctx.SwitchTo(m.canvas)
	m.ctx.Clear(m.background)

	for _, n := range m.nodes {
		if !n.ActiveAt(m.currentTime) {
			continue
		}
		src := n.AsVideoSource()
		if src == nil {
			continue
		}

		m.ctx.SwitchTo(src.Surface())
		pixels := m.ctx.ReadPixels()

		m.ctx.SwitchTo(m.canvas)
		m.ctx.Draw(pixels, src.VideoConfig().PlacementRect())
	}
}

// SnapshotFrame encodes the current composited canvas as a single still
// image. Implements the recording pipeline's Timeline interface.
func (m *Composition) SnapshotFrame(format string) ([]byte, error) {
	m.ctx.SwitchTo(m.canvas)
	return m.ctx.EncodeStill(m.ctx.ReadPixels(), format)
}
