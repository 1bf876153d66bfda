package service

import (
	"context"
	"fmt"

	"github.com/masjidwalk/backend/internal/stepcount"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// SessionService exposes the step-counting session lifecycle. There is
// exactly one session at a time by construction; starting while one is
// active is rejected.
type SessionService struct {
	counter *stepcount.Counter
	feed    *stepcount.DeviceMotionFeed
	logger  *zap.Logger
}

// SessionStatus is a snapshot of the live session
type SessionStatus struct {
	Active bool             `json:"active"`
	Paused bool             `json:"paused"`
	Steps  int              `json:"steps"`
	Source stepcount.Source `json:"source,omitempty"`
}

// NewSessionService creates a new SessionService
func NewSessionService(counter *stepcount.Counter, feed *stepcount.DeviceMotionFeed, logger *zap.Logger) *SessionService {
	return &SessionService{
		counter: counter,
		feed:    feed,
		logger:  logger,
	}
}

// StartSession begins a new walking session and reports the acquired motion
// source. A "gps" source tells the client to estimate steps from distance.
// The session outlives the request that started it, so sensor subscriptions
// must not be tied to the request's cancellation.
func (s *SessionService) StartSession(ctx context.Context) (stepcount.Source, error) {
	source, err := s.counter.Start(context.WithoutCancel(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.Info("walking session started", zap.String("source", string(source)))
	return source, nil
}

// PauseSession suspends step counting; samples received while paused are dropped
func (s *SessionService) PauseSession() {
	s.counter.Pause()
	s.logger.Info("walking session paused", zap.Int("steps", s.counter.Steps()))
}

// ResumeSession continues a paused session
func (s *SessionService) ResumeSession() {
	s.counter.Resume()
	s.logger.Info("walking session resumed")
}

// StopSession ends the session and returns the final step count
func (s *SessionService) StopSession() int {
	s.counter.Stop()
	steps := s.counter.Steps()
	s.logger.Info("walking session stopped", zap.Int("steps", steps))
	return steps
}

// PushSamples feeds client-reported accelerometer samples into the live
// session. The return value is the number of samples forwarded; samples
// arriving with no subscribed session are dropped, which is not an error.
func (s *SessionService) PushSamples(samples []model.AccelerationSample) int {
	return s.feed.Push(samples)
}

// Status returns a snapshot of the live session
func (s *SessionService) Status() SessionStatus {
	status := SessionStatus{
		Active: s.counter.IsActive(),
		Paused: s.counter.IsPaused(),
		Steps:  s.counter.Steps(),
	}
	if status.Active {
		status.Source = s.counter.ActiveSource()
	}
	return status
}
