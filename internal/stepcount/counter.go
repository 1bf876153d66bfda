// Package stepcount owns the lifecycle of live step counting for one walking
// session. It arbitrates between available motion sources, feeds their
// samples into a step detector, and degrades to a GPS-distance fallback when
// no acceleration source can be acquired.
package stepcount

import (
	"context"
	"errors"
	"sync"

	"github.com/masjidwalk/backend/internal/stepdetect"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// Source identifies the motion data source a session ended up on
type Source string

const (
	// SourceAccelerometer is a high-level platform accelerometer sensor
	SourceAccelerometer Source = "accelerometer"
	// SourceDeviceMotion is a generic device-motion sample feed
	SourceDeviceMotion Source = "devicemotion"
	// SourceGPS means no acceleration source is usable; the caller must
	// estimate steps from GPS distance instead. This is a valid terminal
	// state, not an error.
	SourceGPS Source = "gps"
)

// Sentinel errors a Provider may return from Subscribe
var (
	ErrPermissionDenied = errors.New("stepcount: sensor permission denied")
	ErrUnavailable      = errors.New("stepcount: sensor unavailable")
)

// ErrSessionActive is returned by Start while a session is already running
var ErrSessionActive = errors.New("stepcount: session already active")

// Provider is one acquirable motion source. Subscribe either starts sample
// delivery and returns an unsubscribe func, or fails with a sentinel error.
// Hard runtime failures after a successful subscribe are reported through
// onError.
type Provider interface {
	Name() Source
	Subscribe(ctx context.Context, onSample func(model.AccelerationSample), onError func(error)) (func(), error)
}

// Counter drives one walking session: it resets the detector on start, picks
// the first provider that subscribes, and drops samples while paused.
type Counter struct {
	mu          sync.Mutex
	detector    *stepdetect.Detector
	providers   []Provider
	logger      *zap.Logger
	ctx         context.Context
	active      bool
	paused      bool
	source      Source
	providerIdx int
	unsubscribe func()
}

// New creates a Counter over the given providers in priority order. The step
// callback, if non-nil, receives the running total on every confirmed step.
func New(providers []Provider, onStep stepdetect.StepCallback, logger *zap.Logger) *Counter {
	return &Counter{
		detector:  stepdetect.New(onStep),
		providers: providers,
		logger:    logger,
	}
}

// Start resets the detector, marks the session active and acquires the best
// available source. Failure to acquire any acceleration source is not an
// error: the session runs on the GPS fallback.
func (c *Counter) Start(ctx context.Context) (Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return c.source, ErrSessionActive
	}

	c.detector.Reset()
	c.active = true
	c.paused = false
	c.ctx = ctx

	c.acquireFromLocked(0)
	return c.source, nil
}

// acquireFromLocked tries providers[start:] in order and records the first
// one that subscribes. Callers must hold c.mu.
func (c *Counter) acquireFromLocked(start int) {
	for i := start; i < len(c.providers); i++ {
		p := c.providers[i]
		unsub, err := p.Subscribe(c.ctx, c.handleSample, c.providerErrorHandler(i))
		if err != nil {
			switch {
			case errors.Is(err, ErrPermissionDenied):
				c.logger.Info("sensor permission denied, trying next source",
					zap.String("source", string(p.Name())),
				)
			case errors.Is(err, ErrUnavailable):
				c.logger.Info("sensor unavailable, trying next source",
					zap.String("source", string(p.Name())),
				)
			default:
				c.logger.Warn("failed to acquire sensor source",
					zap.Error(err),
					zap.String("source", string(p.Name())),
				)
			}
			continue
		}

		c.source = p.Name()
		c.providerIdx = i
		c.unsubscribe = unsub
		c.logger.Info("motion source acquired", zap.String("source", string(c.source)))
		return
	}

	c.source = SourceGPS
	c.unsubscribe = nil
	c.logger.Info("no acceleration source available, falling back to GPS distance estimation")
}

// providerErrorHandler tears down a source that failed at runtime and falls
// through to the remaining providers in priority order
func (c *Counter) providerErrorHandler(idx int) func(error) {
	return func(err error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.active || c.providerIdx != idx || c.source == SourceGPS {
			return
		}

		c.logger.Warn("motion source failed at runtime, falling back",
			zap.Error(err),
			zap.String("source", string(c.source)),
		)

		if c.unsubscribe != nil {
			c.unsubscribe()
			c.unsubscribe = nil
		}
		c.acquireFromLocked(idx + 1)
	}
}

// handleSample feeds one sample into the detector. Samples delivered while
// paused or after stop are dropped outright, never buffered.
func (c *Counter) handleSample(s model.AccelerationSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || c.paused {
		return
	}
	c.detector.ProcessReading(s.X, s.Y, s.Z)
}

// Pause suspends step counting without losing the accumulated total
func (c *Counter) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume continues step counting after a pause
func (c *Counter) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Stop detaches all sensor subscriptions and marks the session inactive.
// The counted steps are preserved for the caller to read.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.active = false
	c.paused = false
}

// Steps returns the current step total
func (c *Counter) Steps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detector.Steps()
}

// ActiveSource returns the source the current (or last) session runs on
func (c *Counter) ActiveSource() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// IsActive reports whether a session is running
func (c *Counter) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsPaused reports whether the running session is paused
func (c *Counter) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
