package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spaces-community-backend/config"
)

const (
	// CtxUserID is the gin context key holding the caller's identity.
	CtxUserID = "user_id"
	// CtxUserEmail is the gin context key holding the caller's email.
	CtxUserEmail = "user_email"
)

// RequireUser extracts the caller identity asserted by the upstream auth
// proxy and rejects requests without one. The authorization policy itself
// (who may log in, token verification) is the proxy's job, not ours.
func RequireUser(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(cfg.UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, userID)
		if email := c.GetHeader(cfg.UserEmailHeader); email != "" {
			c.Set(CtxUserEmail, email)
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only endpoints: the caller must be the one
// configured admin identity.
func RequireAdmin(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(cfg.UserIDHeader)
		if userID == "" || userID != cfg.AdminUserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// RequireCronSecret protects the dispatch trigger with a shared bearer secret.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
