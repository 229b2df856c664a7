package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spaces-community-backend/internal/mw"
	"spaces-community-backend/internal/schedule"
)

// PostSchedule handles POST /api/spaces/schedule (admin only).
func (h *Handler) PostSchedule(c *gin.Context) {
	var input schedule.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := h.schedule.Create(c.Request.Context(), input, c.GetString(mw.CtxUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "space": space})
}

// GetSchedule handles GET /api/spaces/schedule (admin only). Results are
// ordered ascending by start time.
func (h *Handler) GetSchedule(c *gin.Context) {
	spaces, err := h.schedule.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "spaces": spaces})
}
