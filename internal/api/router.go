package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"spaces-community-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	cfg := h.cfg
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	responseTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(responseTTL, 2*responseTTL)
	caching := mw.Cache(cacheStore, responseTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public space views
		api.GET("/live/:username", caching, h.GetLiveSpaces)
		api.GET("/spaces/:id", caching, h.GetSpace)

		// Admin scheduling
		admin := api.Group("/spaces/schedule", mw.RequireAdmin(&cfg.Auth))
		{
			admin.POST("", h.PostSchedule)
			admin.GET("", h.GetSchedule)
		}

		// Reminder subscription (authenticated users)
		api.POST("/spaces/reminder/subscribe", mw.RequireUser(&cfg.Auth), h.PostSubscribe)

		// Dispatch trigger for the external cron scheduler
		api.POST("/cron/send-reminders", mw.RequireCronSecret(cfg.Auth.CronSecret), h.PostDispatch)

		// Utility endpoint, guarded by the shared email budget
		api.GET("/test/send-email", h.GetTestEmail)
	}

	return r
}
