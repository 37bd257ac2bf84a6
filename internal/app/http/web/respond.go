package web

import (
	"errors"
	"net/http"

	"restaurant-app/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Page writes a 200 page body with the pending flash message attached.
func Page(c *gin.Context, body gin.H) {
	if f := PopFlash(c); f != nil {
		body["flash"] = f
	}
	c.JSON(http.StatusOK, body)
}

// Redirect sends a 302 with a flash message. An empty message skips the flash.
func Redirect(c *gin.Context, location, kind, message string) {
	if message != "" {
		SetFlash(c, kind, message)
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// ServerError logs err and writes a 500.
func ServerError(c *gin.Context, err error, msg string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// DBError maps a lookup error to 404 or 500.
func DBError(c *gin.Context, err error, msg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c)
		return
	}
	ServerError(c, err, msg)
}

// ProviderUnavailable answers a request that needed the payment provider's answer and could not get it.
func ProviderUnavailable(c *gin.Context, err error) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("payment provider unavailable")
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Subscription status is temporarily unavailable"})
}
