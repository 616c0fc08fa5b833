// Package mux builds and executes the external encoder invocation that
// turns a recorded frame stream and per-track audio buffers into one muxed
// output file.
//
// # Invocation Shape
//
// The encoder (ffmpeg by default) reads the concatenated still-image
// stream on standard input and each audio track from a scratch WAV file,
// offset by that track's timeline start:
//
//	ffmpeg -r <fps> -f png_pipe -i pipe:0
//	       [-itsoffset <start> -i <scratch>/track_N.wav ...]
//	       -y -r <fps> -ar <rate> -f <container> [passthrough...]
//	       -v error pipe:1
//
// Tracks beginning mid-timeline are silence-padded by the encoder through
// the input offset, never by synthesizing zero-valued samples upstream.
// Passthrough options are appended verbatim and unvalidated; they are the
// caller's contract with the encoder.
//
// # Process Contract
//
// The command is an argv list, never a shell string. Standard input is
// written in full and both output streams are read to completion; the
// process runner pumps the pipes concurrently, so large payloads cannot
// deadlock. Exit behavior is a single boolean-plus-diagnostic signal: any
// diagnostic output on the error stream fails the invocation, reported as
// a RunError carrying the exact command line and the diagnostic text.
//
// # Scratch Staging
//
// Scratch WAV files live in a directory created before and removed after
// the process runs, on every exit path. Cleanup is best-effort and never
// masks the primary error.
package mux
