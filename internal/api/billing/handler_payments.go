package billing

import (
	"errors"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GET /subscription/edit
// Shows the card on file together with a fresh setup intent for replacing it.
func (h *Handler) Edit(c *gin.Context) {
	m, ok := h.member(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	card, err := h.Billing.DefaultPaymentMethod(ctx, m)
	if err != nil && !errors.Is(err, billing.ErrNoCustomer) {
		providerFailed(c, err, "/", "Your payment details could not be loaded. Please try again later.")
		return
	}

	secret, err := h.Billing.SetupIntent(ctx, m)
	if err != nil {
		providerFailed(c, err, "/", "The payment form could not be prepared. Please try again later.")
		return
	}

	web.Page(c, gin.H{
		"card":   card,
		"intent": gin.H{"client_secret": secret},
	})
}

// PATCH /subscription
func (h *Handler) Update(c *gin.Context) {
	var input paymentMethodInput
	if !validation.Bind(c, &input) {
		return
	}

	m, ok := h.member(c)
	if !ok {
		return
	}

	if err := h.Billing.UpdatePaymentMethod(c.Request.Context(), m, input.PaymentMethodID); err != nil {
		providerFailed(c, err, access.PathSubscriptionEdit, "Your card could not be updated. Please try again.")
		return
	}
	web.Redirect(c, "/", web.FlashSuccess, "Your payment method has been updated.")
}
