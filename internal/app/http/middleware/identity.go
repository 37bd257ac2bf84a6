package middleware

import (
	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/app/http/web"

	"github.com/gin-gonic/gin"
)

// Identity resolves both realm sessions and stores them on the request context.
func Identity(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		web.SetIdentity(c, sessions.Identity(c.Request))
		c.Next()
	}
}
