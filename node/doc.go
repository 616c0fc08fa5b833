// Package node defines the time-bounded units of work that make up a
// montage timeline, and the capability model the recording core uses to
// drive them.
//
// # Node Model
//
// A Node is active over the half-open interval [StartTime, EndTime). The
// timeline evaluates every active node once per unified clock tick;
// evaluation mutates only the node's internal sample/pixel state. Nodes are
// identified by a stable opaque Handle assigned at construction, which the
// recording pipeline uses as a map key instead of object identity.
//
// # Capabilities
//
// Consumers never inspect concrete node types. A node advertises what it
// produces through capability accessors:
//
//   - AsVideoSource returns a VideoSource for nodes that render pixels into
//     a private surface, or nil.
//   - AsAudioSource returns an AudioSource for nodes that produce
//     per-channel samples, or nil.
//
// The Base type provides interval bookkeeping and nil capability defaults;
// concrete nodes embed it and override the accessors they support.
//
// # Concrete Nodes
//
//   - SolidColor: video, fills its placement rectangle with one color.
//   - Still: video, shows a decoded image scaled to its rectangle.
//   - Tone: audio, a fixed-frequency sine generator.
//   - OpusClip: audio, decodes an Ogg/Opus file and serves its samples,
//     resampled to the node's configured rate.
package node
