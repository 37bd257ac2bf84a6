package stripewebhooks

import (
	"errors"
	"time"

	"restaurant-app/internal/domain/billing"
	payments "restaurant-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func (h *Handler) subscriptionUpdated(c *gin.Context, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	local, err := h.findLocal(c, sub.ID)
	if err != nil || local == nil {
		return err
	}

	status := payments.NormalizeStripeStatus(string(sub.Status))
	updates := map[string]interface{}{
		"stripe_status": status,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		updates["stripe_price"] = sub.Items.Data[0].Price.ID
	}
	if status == billing.StatusCanceled {
		updates["ends_at"] = endedAt(sub)
	} else {
		updates["ends_at"] = nil
	}

	return h.DB.WithContext(c.Request.Context()).Model(&billing.Subscription{}).
		Where("id = ?", local.ID).
		Updates(updates).Error
}

// findLocal returns nil without error when the subscription is not ours.
func (h *Handler) findLocal(c *gin.Context, stripeID string) (*billing.Subscription, error) {
	var local billing.Subscription
	err := h.DB.WithContext(c.Request.Context()).Where("stripe_id = ?", stripeID).First(&local).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &local, nil
}

func endedAt(sub *stripe.Subscription) time.Time {
	switch {
	case sub.EndedAt > 0:
		return time.Unix(sub.EndedAt, 0)
	case sub.CanceledAt > 0:
		return time.Unix(sub.CanceledAt, 0)
	default:
		return time.Now()
	}
}
