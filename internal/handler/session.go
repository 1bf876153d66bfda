package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masjidwalk/backend/internal/service"
	"github.com/masjidwalk/backend/internal/stepcount"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// SessionHandler implements the step-counting session endpoints
type SessionHandler struct {
	session *service.SessionService
	logger  *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(session *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

// StartSession begins a walking session and reports the acquired source.
// A "gps" source means no acceleration source was usable; the client should
// estimate steps from the distance walked.
func (h *SessionHandler) StartSession(c *gin.Context) {
	source, err := h.session.StartSession(c.Request.Context())
	if err != nil {
		if errors.Is(err, stepcount.ErrSessionActive) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Code:    "SESSION_ACTIVE",
				Message: "A walking session is already active",
			})
			return
		}
		h.logger.Error("failed to start session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to start session",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"source": source})
}

// PauseSession suspends step counting
func (h *SessionHandler) PauseSession(c *gin.Context) {
	h.session.PauseSession()
	c.JSON(http.StatusOK, h.session.Status())
}

// ResumeSession continues a paused session
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	h.session.ResumeSession()
	c.JSON(http.StatusOK, h.session.Status())
}

// StopSession ends the session and reports the final step count
func (h *SessionHandler) StopSession(c *gin.Context) {
	steps := h.session.StopSession()
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

// PushSamples feeds a batch of accelerometer samples into the live session.
// Samples arriving with no subscribed session are dropped, not an error.
func (h *SessionHandler) PushSamples(c *gin.Context) {
	var req struct {
		Samples []model.AccelerationSample `json:"samples"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	forwarded := h.session.PushSamples(req.Samples)

	c.JSON(http.StatusOK, gin.H{
		"received":  len(req.Samples),
		"forwarded": forwarded,
		"steps":     h.session.Status().Steps,
	})
}

// GetSession returns a snapshot of the live session
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status())
}
