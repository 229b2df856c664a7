package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLiveSpaces handles GET /api/live/:username. Degrades to stale data on
// upstream failure; an empty list is a normal answer.
func (h *Handler) GetLiveSpaces(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	spaces, err := h.resolver.LiveSpaces(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

// GetSpace handles GET /api/spaces/:id.
func (h *Handler) GetSpace(c *gin.Context) {
	spaceID := c.Param("id")

	space, err := h.resolver.SpaceByID(c.Request.Context(), spaceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"space": space})
}
