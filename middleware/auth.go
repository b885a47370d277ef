package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/config"
	"github.com/malazinvestment/backend/pkg/logger"
)

const usernameKey = "username"

// BasicAuth checks HTTP Basic credentials against the configured operator
// account. Both fields are always compared so a wrong username costs the
// same as a wrong password.
func BasicAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	expectedUser := []byte(cfg.Username)
	expectedPass := []byte(cfg.Password)

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()

		userOK := subtle.ConstantTimeCompare([]byte(username), expectedUser)
		passOK := subtle.ConstantTimeCompare([]byte(password), expectedPass)
		if !ok || userOK&passOK != 1 {
			logger.Warn(c.Request.Context(), "admin authentication failed", "client_ip", c.ClientIP())
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Incorrect username or password",
			})
			return
		}

		c.Set(usernameKey, username)
		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUsername gets the authenticated operator from context
func GetUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
