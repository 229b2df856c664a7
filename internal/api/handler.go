package api

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/mailer"
	"spaces-community-backend/internal/ratelimit"
	"spaces-community-backend/internal/reminder"
	"spaces-community-backend/internal/resolver"
	"spaces-community-backend/internal/schedule"
	"spaces-community-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	resolver   *resolver.Resolver
	schedule   *schedule.Manager
	dispatcher *reminder.Dispatcher
	store      store.Store
	sender     mailer.Sender
	limiter    *ratelimit.Limiter
	cfg        *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(
	res *resolver.Resolver,
	sched *schedule.Manager,
	disp *reminder.Dispatcher,
	s store.Store,
	sender mailer.Sender,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *Handler {
	return &Handler{
		resolver:   res,
		schedule:   sched,
		dispatcher: disp,
		store:      s,
		sender:     sender,
		limiter:    limiter,
		cfg:        cfg,
	}
}

// respondError maps a taxonomy error to its HTTP response. Rate-limit
// rejections carry the reset time and a Retry-After header.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if rl, ok := apperr.IsRateLimited(err); ok {
		retryAfter := int(math.Ceil(time.Until(rl.ResetAt).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(status, gin.H{
			"error":   "too many requests",
			"resetAt": rl.ResetAt.UTC().Format(time.RFC3339),
		})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
