package stepcount

import (
	"context"
	"testing"

	"github.com/masjidwalk/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider is a scriptable motion source for arbitration tests
type fakeProvider struct {
	name         Source
	subscribeErr error

	onSample     func(model.AccelerationSample)
	onError      func(error)
	subscribed   bool
	unsubscribed bool
}

func (p *fakeProvider) Name() Source {
	return p.name
}

func (p *fakeProvider) Subscribe(ctx context.Context, onSample func(model.AccelerationSample), onError func(error)) (func(), error) {
	if p.subscribeErr != nil {
		return nil, p.subscribeErr
	}
	p.onSample = onSample
	p.onError = onError
	p.subscribed = true
	return func() { p.unsubscribed = true }, nil
}

// pushStep drives one full rise-then-fall crossing through the provider
func (p *fakeProvider) pushStep() {
	p.onSample(model.AccelerationSample{Z: 9.8})
	p.onSample(model.AccelerationSample{Z: 12.0})
	p.onSample(model.AccelerationSample{Z: 9.8})
}

func TestCounter_StartPicksHighestPrioritySource(t *testing.T) {
	accel := &fakeProvider{name: SourceAccelerometer}
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{accel, motion}, nil, zap.NewNop())

	source, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceAccelerometer, source)
	assert.True(t, accel.subscribed)
	assert.False(t, motion.subscribed)
	assert.True(t, c.IsActive())
}

func TestCounter_PermissionDeniedFallsThrough(t *testing.T) {
	accel := &fakeProvider{name: SourceAccelerometer, subscribeErr: ErrPermissionDenied}
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{accel, motion}, nil, zap.NewNop())

	source, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceDeviceMotion, source)
	assert.True(t, motion.subscribed)
}

func TestCounter_NoSourceFallsBackToGPS(t *testing.T) {
	accel := &fakeProvider{name: SourceAccelerometer, subscribeErr: ErrUnavailable}
	motion := &fakeProvider{name: SourceDeviceMotion, subscribeErr: ErrPermissionDenied}
	c := New([]Provider{accel, motion}, nil, zap.NewNop())

	source, err := c.Start(context.Background())

	// The GPS fallback is a valid terminal state, not an error
	require.NoError(t, err)
	assert.Equal(t, SourceGPS, source)
	assert.True(t, c.IsActive())
}

func TestCounter_SamplesDriveStepCount(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{motion}, nil, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)

	motion.pushStep()
	assert.Equal(t, 1, c.Steps())
}

func TestCounter_PauseDropsSamplesButKeepsCount(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{motion}, nil, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)

	motion.pushStep()
	require.Equal(t, 1, c.Steps())

	c.Pause()
	motion.pushStep() // dropped, not buffered
	assert.Equal(t, 1, c.Steps())

	c.Resume()
	// Interval validity is unaffected by the pause; this crossing would be
	// within the debounce window of the dropped one only if it had counted
	assert.Equal(t, 1, c.Steps())
}

func TestCounter_StopDetachesAndPreservesSteps(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{motion}, nil, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)

	motion.pushStep()
	c.Stop()

	assert.True(t, motion.unsubscribed)
	assert.False(t, c.IsActive())
	assert.Equal(t, 1, c.Steps())

	motion.pushStep() // delivered after stop: dropped
	assert.Equal(t, 1, c.Steps())
}

func TestCounter_StartWhileActiveFails(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{motion}, nil, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)

	_, err = c.Start(context.Background())
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestCounter_StartResetsPreviousSessionCount(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{motion}, nil, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)
	motion.pushStep()
	c.Stop()
	require.Equal(t, 1, c.Steps())

	_, err = c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Steps())
}

func TestCounter_RuntimeErrorFallsBackToNextSource(t *testing.T) {
	accel := &fakeProvider{name: SourceAccelerometer}
	motion := &fakeProvider{name: SourceDeviceMotion}
	c := New([]Provider{accel, motion}, nil, zap.NewNop())

	source, err := c.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, SourceAccelerometer, source)

	accel.pushStep()
	require.Equal(t, 1, c.Steps())

	// Hard sensor error mid-session
	accel.onError(assert.AnError)

	assert.True(t, accel.unsubscribed)
	assert.Equal(t, SourceDeviceMotion, c.ActiveSource())
	assert.True(t, motion.subscribed)

	// Count survives the source switch
	assert.Equal(t, 1, c.Steps())
}

func TestCounter_CallbackReceivesTotals(t *testing.T) {
	motion := &fakeProvider{name: SourceDeviceMotion}

	var got []int
	c := New([]Provider{motion}, func(steps int) {
		got = append(got, steps)
	}, zap.NewNop())

	_, err := c.Start(context.Background())
	require.NoError(t, err)

	motion.pushStep()
	assert.Equal(t, []int{1}, got)
}

func TestDeviceMotionFeed_PushWithoutSubscriberDropsSamples(t *testing.T) {
	feed := NewDeviceMotionFeed(true)
	forwarded := feed.Push([]model.AccelerationSample{{Z: 9.8}})
	assert.Equal(t, 0, forwarded)
}

func TestDeviceMotionFeed_PermissionDenied(t *testing.T) {
	feed := NewDeviceMotionFeed(false)
	_, err := feed.Subscribe(context.Background(), func(model.AccelerationSample) {}, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSimulatedAccelerometer_DisabledIsUnavailable(t *testing.T) {
	sim := NewSimulatedAccelerometer(false, 60)
	_, err := sim.Subscribe(context.Background(), func(model.AccelerationSample) {}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
