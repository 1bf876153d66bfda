package stepdetect

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_ImplausibleSamplesNeverChangeCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("samples with out-of-range magnitude leave the count untouched", prop.ForAll(
		func(x, y, z float64) bool {
			magnitude := math.Sqrt(x*x + y*y + z*z)
			if magnitude >= 1.0 && magnitude <= 50.0 {
				return true // plausible sample, not this property's concern
			}

			clock := newFakeClock()
			d := NewWithClock(nil, clock.Now)
			oneStep(d)
			before := d.Steps()

			d.ProcessReading(x, y, z)

			return d.Steps() == before
		},
		gen.Float64Range(-200, 200),
		gen.Float64Range(-200, 200),
		gen.Float64Range(-200, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_StepCountMonotonicBetweenResets(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("processing any sample sequence never decreases the count", prop.ForAll(
		func(magnitudes []float64, gapsMs []int) bool {
			clock := newFakeClock()
			d := NewWithClock(nil, clock.Now)

			prev := 0
			for i, m := range magnitudes {
				if i < len(gapsMs) {
					clock.Advance(time.Duration(gapsMs[i]) * time.Millisecond)
				}
				d.ProcessReading(0, 0, m)
				if d.Steps() < prev {
					return false
				}
				prev = d.Steps()
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 60)),
		gen.SliceOf(gen.IntRange(0, 5000)),
	))

	properties.TestingRun(t)
}

func TestProperty_ResetIsIdempotentRestart(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("after reset the one-step sequence always yields exactly one step", prop.ForAll(
		func(noise []float64) bool {
			clock := newFakeClock()
			d := NewWithClock(nil, clock.Now)

			// Arbitrary prior activity
			for _, m := range noise {
				d.ProcessReading(0, 0, m)
				clock.Advance(100 * time.Millisecond)
			}

			d.Reset()
			oneStep(d)

			return d.Steps() == 1
		},
		gen.SliceOf(gen.Float64Range(0, 60)),
	))

	properties.TestingRun(t)
}
