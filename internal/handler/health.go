package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masjidwalk/backend/internal/storage"
	"go.uber.org/zap"
)

// HealthHandler implements the liveness endpoint
type HealthHandler struct {
	store  storage.Store
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store storage.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// GetHealth reports liveness and storage reachability
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check failed: storage unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": "disconnected",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": "connected",
		"service": "masjidwalk-backend",
	})
}
