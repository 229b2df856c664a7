package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spaces-community-backend/internal/mailer"
	"spaces-community-backend/internal/model"
	"spaces-community-backend/internal/mw"
)

type subscribeRequest struct {
	SpaceID string `json:"spaceId" binding:"required"`
	Email   string `json:"email"`
}

// PostSubscribe handles POST /api/spaces/reminder/subscribe. The reminder row
// is denormalized from the scheduled space so the dispatcher can render the
// email without a join. A confirmation email goes out immediately; its
// failure does not undo the subscription.
func (h *Handler) PostSubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := c.GetString(mw.CtxUserEmail)
	if email == "" {
		email = req.Email
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no email address found"})
		return
	}

	space, err := h.store.GetScheduledSpace(c.Request.Context(), req.SpaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	rem := &model.SpaceReminder{
		ID:           uuid.NewString(),
		SpaceID:      space.ID,
		UserID:       c.GetString(mw.CtxUserID),
		Email:        email,
		Title:        space.Title,
		GuestSpeaker: space.GuestSpeaker,
		Description:  space.Description,
		ScheduledFor: space.ScheduledFor,
		ReminderSent: false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateReminder(c.Request.Context(), rem); err != nil {
		respondError(c, err)
		return
	}

	msg, err := mailer.ConfirmationMessage(email, mailer.ReminderData{
		Title:        space.Title,
		ScheduledFor: space.ScheduledFor,
		GuestSpeaker: space.GuestSpeaker,
		Description:  space.Description,
		SpaceID:      space.ID,
	})
	if err == nil {
		if _, err := h.sender.Send(c.Request.Context(), msg); err != nil {
			log.Printf("Error sending confirmation to %s: %v", email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reminderId": rem.ID})
}
