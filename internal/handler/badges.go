package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masjidwalk/backend/internal/service"
	"go.uber.org/zap"
)

// BadgeHandler implements the badge progress endpoint
type BadgeHandler struct {
	badges  *service.BadgeService
	history *service.HistoryService
	logger  *zap.Logger
}

// NewBadgeHandler creates a new BadgeHandler
func NewBadgeHandler(badges *service.BadgeService, history *service.HistoryService, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{
		badges:  badges,
		history: history,
		logger:  logger,
	}
}

// GetBadges returns progress for every badge, evaluating the current stats.
// Newly crossed thresholds get their first-earned timestamp persisted here.
func (h *BadgeHandler) GetBadges(c *gin.Context) {
	stats, err := h.history.GetWalkingStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to compute walking stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to compute walking stats",
			Details: stringPtr(err.Error()),
		})
		return
	}

	badges, err := h.badges.GetBadges(c.Request.Context(), *stats)
	if err != nil {
		h.logger.Error("failed to evaluate badges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to evaluate badges",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, badges)
}
