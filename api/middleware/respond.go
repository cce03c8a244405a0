package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/use-agent/bookbuddy/models"
)

// identityKey holds the caller identity set by Auth.
const identityKey = "bookbuddy.identity"

// Identity is the API key the request authenticated with, or the client IP
// when auth is off.
func Identity(c *gin.Context) string {
	if id := c.GetString(identityKey); id != "" {
		return id
	}
	return c.ClientIP()
}

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, models.FormResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: msg},
	})
}
