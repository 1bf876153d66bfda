package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masjidwalk/backend/internal/service"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// WalkHandler implements the walk history and statistics endpoints
type WalkHandler struct {
	history *service.HistoryService
	badges  *service.BadgeService
	logger  *zap.Logger
}

// NewWalkHandler creates a new WalkHandler
func NewWalkHandler(history *service.HistoryService, badges *service.BadgeService, logger *zap.Logger) *WalkHandler {
	return &WalkHandler{
		history: history,
		badges:  badges,
		logger:  logger,
	}
}

// PostWalk appends a completed walk entry and reports any badges it earned
func (h *WalkHandler) PostWalk(c *gin.Context) {
	var entry model.WalkEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.history.AddWalkEntry(c.Request.Context(), &entry); err != nil {
		if errors.Is(err, service.ErrInvalidEntry) {
			h.logger.Warn("rejected walk entry", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to add walk entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to add walk entry",
			Details: stringPtr(err.Error()),
		})
		return
	}

	// Evaluate badges against the updated stats so the client can celebrate
	// new ones immediately
	var newlyEarned []model.BadgeProgress
	stats, err := h.history.GetWalkingStats(c.Request.Context())
	if err == nil {
		newlyEarned, err = h.badges.GetNewlyEarnedBadges(c.Request.Context(), *stats)
	}
	if err != nil {
		h.logger.Error("badge evaluation after walk failed", zap.Error(err))
		newlyEarned = nil
	}

	h.logger.Info("walk entry added",
		zap.String("entry_id", entry.ID),
		zap.String("prayer", string(entry.Prayer)),
		zap.Int("steps", entry.Steps),
	)

	c.JSON(http.StatusCreated, gin.H{
		"entry":         entry,
		"new_badges":    newlyEarned,
		"badges_earned": len(newlyEarned),
	})
}

// GetWalks lists the full walk history, newest first
func (h *WalkHandler) GetWalks(c *gin.Context) {
	entries, err := h.history.GetWalkHistory(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list walk history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list walk history",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("walk history listed", zap.Int("count", len(entries)))

	c.JSON(http.StatusOK, entries)
}

// DeleteWalk removes a walk entry by id. Deleting an unknown id is a no-op
// and still succeeds.
func (h *WalkHandler) DeleteWalk(c *gin.Context) {
	id := c.Param("id")

	if err := h.history.DeleteWalkEntry(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete walk entry",
			zap.Error(err),
			zap.String("entry_id", id),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete walk entry",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("walk entry deleted", zap.String("entry_id", id))

	c.Status(http.StatusNoContent)
}

// GetStats returns the derived walking statistics
func (h *WalkHandler) GetStats(c *gin.Context) {
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

	c.JSON(http.StatusOK, stats)
}
