package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/mailer"
	"spaces-community-backend/internal/ratelimit"
)

const testEmailToken = "send_test_email"

// GetTestEmail handles GET /api/test/send-email: sends a rendered reminder to
// the configured sender address under the email budget.
func (h *Handler) GetTestEmail(c *gin.Context) {
	res, err := h.limiter.Acquire(c.Request.Context(), ratelimit.CategoryEmail, testEmailToken)
	if err != nil {
		respondError(c, err)
		return
	}
	if !res.Allowed {
		respondError(c, apperr.NewRateLimited(res.ResetAt))
		return
	}

	msg, err := mailer.ReminderMessage(h.cfg.Mail.From, mailer.ReminderData{
		Title:        "Test Space",
		ScheduledFor: time.Now().UTC(),
		GuestSpeaker: "@testguest",
		Description:  "This is a test space",
		SpaceID:      "test_space_id",
	})
	if err != nil {
		respondError(c, err)
		return
	}
	msg.Subject = "🎙️ Test: " + msg.Subject

	msgID, err := h.sender.Send(c.Request.Context(), msg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": msgID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
