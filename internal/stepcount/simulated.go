package stepcount

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/masjidwalk/backend/pkg/model"
)

// SimulatedAccelerometer stands in for a high-level platform accelerometer
// sensor in development deployments: it generates a walking-like gravity
// signal at a fixed sample rate. Disabled instances report ErrUnavailable so
// arbitration falls through to the device-motion feed, exactly as on
// hardware without an onboard IMU.
type SimulatedAccelerometer struct {
	enabled bool
	rateHz  int

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSimulatedAccelerometer creates the provider. rateHz must be positive
// when enabled.
func NewSimulatedAccelerometer(enabled bool, rateHz int) *SimulatedAccelerometer {
	if rateHz <= 0 {
		rateHz = 60
	}
	return &SimulatedAccelerometer{
		enabled: enabled,
		rateHz:  rateHz,
	}
}

// Name identifies this source
func (a *SimulatedAccelerometer) Name() Source {
	return SourceAccelerometer
}

// Subscribe starts the sample goroutine
func (a *SimulatedAccelerometer) Subscribe(ctx context.Context, onSample func(model.AccelerationSample), onError func(error)) (func(), error) {
	if !a.enabled {
		return nil, ErrUnavailable
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go a.run(runCtx, onSample)

	unsubscribe := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
	}
	return unsubscribe, nil
}

func (a *SimulatedAccelerometer) run(ctx context.Context, onSample func(model.AccelerationSample)) {
	interval := time.Second / time.Duration(a.rateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// ~1.8 Hz vertical oscillation, a typical walking cadence
	var phase float64
	stepPerTick := 2 * math.Pi * 1.8 / float64(a.rateHz)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			phase += stepPerTick
			onSample(model.AccelerationSample{
				X: 0.3*math.Sin(phase*0.5) + rand.Float64()*0.05,
				Y: 0.2*math.Cos(phase*0.7) + rand.Float64()*0.05,
				Z: 9.81 + 1.6*math.Sin(phase) + rand.Float64()*0.1,
			})
		}
	}
}
