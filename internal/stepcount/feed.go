package stepcount

import (
	"context"
	"sync"

	"github.com/masjidwalk/backend/pkg/model"
)

// DeviceMotionFeed is the device-motion analogue for a server deployment:
// clients push batched accelerometer samples over HTTP and the feed bridges
// them to whichever session is subscribed. Samples pushed while nothing is
// subscribed are dropped.
type DeviceMotionFeed struct {
	mu       sync.RWMutex
	onSample func(model.AccelerationSample)
	granted  bool
}

// NewDeviceMotionFeed creates a feed. granted mirrors the client-side
// one-time motion permission: a feed without permission refuses to subscribe
// and the session falls through to the GPS fallback.
func NewDeviceMotionFeed(granted bool) *DeviceMotionFeed {
	return &DeviceMotionFeed{granted: granted}
}

// Name identifies this source
func (f *DeviceMotionFeed) Name() Source {
	return SourceDeviceMotion
}

// Subscribe registers the session's sample callback
func (f *DeviceMotionFeed) Subscribe(ctx context.Context, onSample func(model.AccelerationSample), onError func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.granted {
		return nil, ErrPermissionDenied
	}

	f.onSample = onSample

	unsubscribe := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.onSample = nil
	}
	return unsubscribe, nil
}

// Push delivers a batch of client samples to the subscribed session, if any.
// It returns the number of samples forwarded.
func (f *DeviceMotionFeed) Push(samples []model.AccelerationSample) int {
	f.mu.RLock()
	onSample := f.onSample
	f.mu.RUnlock()

	if onSample == nil {
		return 0
	}

	for _, s := range samples {
		onSample(s)
	}
	return len(samples)
}

// SetPermission updates the client-reported motion permission state
func (f *DeviceMotionFeed) SetPermission(granted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = granted
}
