// Package render defines the rendering collaborator boundary of the montage
// engine and provides a CPU software implementation of it.
//
// The recording core never renders node content itself; it drives a Context
// through a strict surface-switching discipline: make a source surface
// current, read its pixels, switch to the destination surface, write. The
// Context interface mirrors that contract:
//
//	ctx.SwitchTo(nodeSurface)
//	pixels := ctx.ReadPixels()
//	ctx.SwitchTo(canvas)
//	ctx.Draw(pixels, placement)
//
// SoftwareContext backs every Surface with an in-memory RGBA framebuffer
// and composites with golang.org/x/image/draw, scaling sources whose
// bounds differ from their placement rectangle. EncodeStill serializes the
// composited pixels as an independently-decodable still image (png or bmp)
// for the encoder's image-sequence input.
//
// Contexts are not safe for concurrent use; all access happens from the
// single recording loop.
package render
