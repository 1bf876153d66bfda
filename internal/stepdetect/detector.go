// Package stepdetect converts a stream of raw 3-axis accelerometer samples
// into discrete step events using gravity-relative peak detection with
// hysteresis and interval debouncing.
package stepdetect

import (
	"math"
	"time"
)

const (
	// restGravity is the expected magnitude of a device at rest, in m/s²
	restGravity = 9.8

	// peakDelta above rest gravity marks a rising peak candidate; falling
	// back below half that delta confirms the peak. The two thresholds
	// disagree on purpose: a single crossing level would double-count on
	// sensor jitter right at the boundary.
	peakDelta        = 1.2
	risingThreshold  = restGravity + peakDelta
	fallingThreshold = restGravity + peakDelta*0.5

	// Plausibility bounds for a sample's magnitude. Anything outside is a
	// sensor glitch, not human motion.
	minMagnitude = 1.0
	maxMagnitude = 50.0

	// Confirmed peaks closer together than minStepInterval are mechanical
	// bounce; gaps longer than maxStepInterval mean walking stopped and
	// resumed, so the next peak starts a fresh cadence.
	minStepInterval = 250 * time.Millisecond
	maxStepInterval = 3500 * time.Millisecond
)

// StepCallback is invoked with the new running total each time a step is
// confirmed
type StepCallback func(steps int)

// Detector is the per-session peak-detection state machine. It is not safe
// for concurrent use; one goroutine must own ProcessReading.
type Detector struct {
	stepCount     int
	lastMagnitude float64
	lastPeakAt    time.Time
	isRising      bool

	onStep StepCallback
	now    func() time.Time
}

// New creates a Detector. The callback may be nil.
func New(onStep StepCallback) *Detector {
	return &Detector{
		onStep: onStep,
		now:    time.Now,
	}
}

// NewWithClock creates a Detector with an injected clock for deterministic tests
func NewWithClock(onStep StepCallback, now func() time.Time) *Detector {
	return &Detector{
		onStep: onStep,
		now:    now,
	}
}

// ProcessReading ingests one accelerometer sample in m/s², gravity included.
// Implausible readings are discarded without any state change.
func (d *Detector) ProcessReading(x, y, z float64) {
	if !isFinite(x) || !isFinite(y) || !isFinite(z) {
		return
	}

	magnitude := math.Sqrt(x*x + y*y + z*z)
	if !isFinite(magnitude) || magnitude < minMagnitude || magnitude > maxMagnitude {
		return
	}

	switch {
	case magnitude > risingThreshold && !d.isRising:
		d.isRising = true

	case d.isRising && magnitude < fallingThreshold:
		// Confirmed rise-then-fall: one candidate step
		d.isRising = false
		now := d.now()

		valid := true
		if !d.lastPeakAt.IsZero() {
			interval := now.Sub(d.lastPeakAt)
			valid = interval > minStepInterval && interval < maxStepInterval
		}

		// Advance the peak timestamp even for rejected candidates so a
		// burst of fast bounces cannot sneak a step through against a
		// stale timestamp.
		d.lastPeakAt = now

		if valid {
			d.stepCount++
			if d.onStep != nil {
				d.onStep(d.stepCount)
			}
		}
	}

	d.lastMagnitude = magnitude
}

// Steps returns the running step total
func (d *Detector) Steps() int {
	return d.stepCount
}

// Reset clears all state for a new walking session
func (d *Detector) Reset() {
	d.stepCount = 0
	d.lastMagnitude = 0
	d.lastPeakAt = time.Time{}
	d.isRising = false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
