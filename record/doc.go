// Package record implements the montage recording pipeline: the loop that
// drives a timeline across a time window on the unified clock and collects
// the raw material for muxing.
//
// # Loop Semantics
//
// The pipeline iterates an integer progress counter from 0 to the step
// count of the window at the schedule's increment. Each step:
//
//  1. Recomputes the float clock from the counter and advances the
//     timeline, evaluating every active node and compositing video.
//  2. On audio ticks, reads the current per-channel samples of every
//     eligible audio node (audio capability, output enabled, at least one
//     channel, active at this instant) and quantizes them into that node's
//     buffer. Buffers are keyed by node handle and ordered by first
//     capture.
//  3. On frame ticks, snapshots the composited frame and appends its
//     encoded still-image bytes to the single video frame stream.
//
// The float clock is always derived from the integer counter; it is never
// accumulated by repeated addition, so no drift builds up over long
// recordings.
//
// Any node evaluation failure aborts the recording immediately with no
// partial result. Audio configurations are validated before the first step
// so that bad sample widths fail fast.
package record
