package v1

import (
	"net/http"
	"strings"

	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// IdentityMiddleware extracts the reporter identity from request
// headers. Endpoints that create or delete reports require it.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-Id"); id != "" {
			c.Set(userIDKey, id)
		}
		if name := c.GetHeader("X-User-Name"); name != "" {
			c.Set(userNameKey, name)
		}
		c.Next()
	}
}

// APIKeyAuthMiddleware guards officer endpoints with an API key, either
// via X-API-Key or an Authorization: Bearer header.
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range cfg.APIKeys {
			if key == apiKey {
				isValid = true
				break
			}
		}

		if !isValid {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// requireUserID pulls the reporter identity set by IdentityMiddleware,
// aborting with 401 when it is missing.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return "", false
	}
	return userID, true
}
