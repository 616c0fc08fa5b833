// Package montage implements a programmatic video-composition engine.
//
// A Composition is a timeline of time-bounded nodes (video and audio
// generators) evaluated tick by tick on a single virtual clock to produce
// a rendered frame and sample stream, which is muxed into an output media
// file by an external encoder.
//
// # Architecture
//
// The engine consists of several integrated subsystems:
//
//   - Composition: owns the node set, the virtual clock and the canvas,
//     and composites video output each tick (this package)
//   - clock: the dual-rate schedule that decides, per unified clock tick,
//     whether to capture a frame and/or a sample, drift-free
//   - node: the time-bounded node model with video/audio capabilities
//   - pcm: sample quantization into fixed-width PCM and WAV staging
//   - record: the recording loop collecting frames and per-node buffers
//   - mux: the external encoder invocation with per-track offsets
//   - render: the rendering collaborator boundary and a CPU implementation
//
// # Usage
//
// Build a composition, add nodes, and record:
//
//	comp, err := montage.New(640, 360)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tone, err := node.NewTone(0, 5, node.AudioConfig{
//	    SampleSize:  16,
//	    SampleRate:  44100,
//	    Channels:    2,
//	    OutputAudio: true,
//	}, 440, 0.5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	comp.Add(tone)
//
//	err = comp.Record(ctx, "out.mp4", 24, 44100, nil)
//
// Recording runs to completion or fails outright; the destination is only
// written after the external encoder reports success, so a failed
// recording leaves no partial file.
package montage
