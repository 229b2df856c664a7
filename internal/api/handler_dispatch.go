package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spaces-community-backend/internal/apperr"
)

// PostDispatch handles POST /api/cron/send-reminders, invoked by the external
// scheduler. A timeout still reports the partial outcome; unmarked
// subscriptions are retried on the next invocation.
func (h *Handler) PostDispatch(c *gin.Context) {
	report, err := h.dispatcher.DispatchOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrTimeout) && report != nil {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error(), "report": report})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
