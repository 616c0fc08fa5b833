// Package clock implements the dual-rate synchronization schedule for the
// montage recording loop.
//
// A recording interleaves discrete video frames (at a frame rate) and
// discrete audio samples (at a sample rate) from one virtual clock. The
// schedule subdivides a second into lcm(frameRate, sampleRate) ticks so that
// both rates land on exact tick boundaries, and capture decisions become
// integer modular arithmetic. No floating-point time comparison is ever
// used, so no drift accumulates over arbitrarily long recordings.
package clock

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage/limits"
)

// Schedule decides, for every tick of the unified clock, whether a video
// frame and/or an audio sample must be captured.
//
// One unit of progress represents 1/Increment seconds, the coarsest common
// subdivision of the frame rate and the sample rate with no remainder.
type Schedule struct {
	frameRate  int
	sampleRate int

	increment   int64
	frameEvery  int64 // ticks between frame captures (increment / frameRate)
	sampleEvery int64 // ticks between sample captures (increment / sampleRate)
}

// Window is a closed recording interval in seconds. Both bounds are
// immutable for the duration of one recording call.
type Window struct {
	Start float64
	End   float64
}

// NewSchedule computes the capture schedule for the given rates.
//
// Both rates must be positive integers in Hz; fractional rates are not
// representable on the unified clock and are rejected by construction.
// Fails if the least common multiple of the rates exceeds the clock bounds.
//
// Parameters:
//   - frameRate: video frame rate in Hz
//   - sampleRate: audio sample rate in Hz
//
// Returns:
//   - *Schedule: the computed capture schedule
//   - error: ErrNonPositiveRate or ErrIncrementOverflow on invalid input
func NewSchedule(frameRate, sampleRate int) (*Schedule, error) {
	logrus.WithFields(logrus.Fields{
		"function":    "NewSchedule",
		"frame_rate":  frameRate,
		"sample_rate": sampleRate,
	}).Debug("Computing capture schedule")

	if frameRate <= 0 || sampleRate <= 0 {
		logrus.WithFields(logrus.Fields{
			"function":    "NewSchedule",
			"frame_rate":  frameRate,
			"sample_rate": sampleRate,
			"error":       "non-positive rate",
		}).Error("Rate validation failed")
		return nil, fmt.Errorf("%w: frame_rate=%d sample_rate=%d", ErrNonPositiveRate, frameRate, sampleRate)
	}

	increment, err := lcm(int64(frameRate), int64(sampleRate))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "NewSchedule",
			"frame_rate":  frameRate,
			"sample_rate": sampleRate,
			"error":       err.Error(),
		}).Error("Increment computation failed")
		return nil, err
	}

	if err := limits.ValidateClockIncrement(increment); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "NewSchedule",
			"increment": increment,
			"error":     err.Error(),
		}).Error("Increment limit validation failed")
		return nil, fmt.Errorf("%w: %v", ErrIncrementOverflow, err)
	}

	s := &Schedule{
		frameRate:   frameRate,
		sampleRate:  sampleRate,
		increment:   increment,
		frameEvery:  increment / int64(frameRate),
		sampleEvery: increment / int64(sampleRate),
	}

	logrus.WithFields(logrus.Fields{
		"function":     "NewSchedule",
		"frame_rate":   frameRate,
		"sample_rate":  sampleRate,
		"increment":    s.increment,
		"frame_every":  s.frameEvery,
		"sample_every": s.sampleEvery,
	}).Info("Capture schedule computed")

	return s, nil
}

// Increment returns the number of unified clock ticks per second.
func (s *Schedule) Increment() int64 {
	return s.increment
}

// FrameRate returns the configured video frame rate in Hz.
func (s *Schedule) FrameRate() int {
	return s.frameRate
}

// SampleRate returns the configured audio sample rate in Hz.
func (s *Schedule) SampleRate() int {
	return s.sampleRate
}

// CaptureFrame reports whether a video frame must be captured at the given
// progress counter value. Progress counts unified clock ticks from the
// start of the recording window, beginning at zero.
func (s *Schedule) CaptureFrame(progress int64) bool {
	return progress%s.frameEvery == 0
}

// CaptureSample reports whether an audio sample must be captured at the
// given progress counter value.
func (s *Schedule) CaptureSample(progress int64) bool {
	return progress%s.sampleEvery == 0
}

// TimeAt recomputes the virtual clock value for a progress counter.
//
// The float clock is always derived from the integer counter rather than
// accumulated by repeated addition; accumulation would reintroduce the
// drift the schedule exists to eliminate.
func (s *Schedule) TimeAt(start float64, progress int64) float64 {
	return start + float64(progress)/float64(s.increment)
}

// Steps returns the total number of loop iterations needed to cover the
// window inclusively at this schedule's increment.
//
// The count is round((End-Start) * Increment) + 1, covering both endpoints.
// Fails if the window is inverted, non-finite, or produces a step count
// beyond the configured bounds.
func (s *Schedule) Steps(w Window) (int64, error) {
	if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.Start, 0) || math.IsInf(w.End, 0) {
		return 0, fmt.Errorf("%w: start=%v end=%v", ErrInvalidWindow, w.Start, w.End)
	}
	if w.End < w.Start {
		return 0, fmt.Errorf("%w: start=%v end=%v", ErrInvalidWindow, w.Start, w.End)
	}

	span := (w.End - w.Start) * float64(s.increment)
	if span > float64(limits.MaxRecordingSteps) {
		return 0, fmt.Errorf("%w: window %v..%v at increment %d", ErrWindowTooLong, w.Start, w.End, s.increment)
	}

	steps := int64(math.Round(span)) + 1
	if err := limits.ValidateStepCount(steps); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWindowTooLong, err)
	}
	return steps, nil
}

// gcd computes the greatest common divisor using the Euclidean algorithm.
func gcd(a, b int64) int64 {
	for a != 0 {
		a, b = b%a, a
	}
	return b
}

// lcm computes the least common multiple of two positive integers, failing
// if the result would overflow int64.
func lcm(a, b int64) (int64, error) {
	d := gcd(a, b)
	q := a / d
	if q != 0 && b > math.MaxInt64/q {
		return 0, fmt.Errorf("%w: lcm(%d, %d)", ErrIncrementOverflow, a, b)
	}
	return q * b, nil
}
