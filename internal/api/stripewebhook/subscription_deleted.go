package stripewebhooks

import (
	"restaurant-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// A deleted subscription is always canceled, whatever status the payload carries.
func (h *Handler) subscriptionDeleted(c *gin.Context, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	local, err := h.findLocal(c, sub.ID)
	if err != nil || local == nil {
		return err
	}

	return h.DB.WithContext(c.Request.Context()).Model(&billing.Subscription{}).
		Where("id = ?", local.ID).
		Updates(map[string]interface{}{
			"stripe_status": billing.StatusCanceled,
			"ends_at":       endedAt(sub),
		}).Error
}
