package stripewebhooks

import (
	"io"
	"net/http"

	"restaurant-app/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

const maxBodyBytes = 65536

type Handler struct {
	DB     *gorm.DB
	Secret string
}

func NewHandler(db *gorm.DB, secret string) *Handler {
	return &Handler{DB: db, Secret: secret}
}

// POST /webhook
func (h *Handler) Receive(c *gin.Context) {
	if h.Secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.Secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	log := logging.Ctx(c.Request.Context()).With().Str("event_id", event.ID).Str("event_type", string(event.Type)).Logger()

	var handle func(*gin.Context, *stripe.Subscription) error
	switch event.Type {
	case "customer.subscription.updated":
		handle = h.subscriptionUpdated
	case "customer.subscription.deleted":
		handle = h.subscriptionDeleted
	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
		return
	}
	if err := handle(c, &sub); err != nil {
		log.Error().Err(err).Str("stripe_id", sub.ID).Msg("webhook handling failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Str("stripe_id", sub.ID).Str("status", string(sub.Status)).Msg("webhook processed")
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
