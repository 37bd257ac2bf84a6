package billing

import (
	"errors"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const PathSubscriptionCancel = "/subscription/cancel"

type Handler struct {
	DB      *gorm.DB
	Billing *billing.Service
}

func NewHandler(db *gorm.DB, svc *billing.Service) *Handler {
	return &Handler{DB: db, Billing: svc}
}

type paymentMethodInput struct {
	PaymentMethodID string `form:"payment_method_id" json:"payment_method_id" binding:"required"`
}

func (h *Handler) member(c *gin.Context) (*users.Member, bool) {
	var m users.Member
	if err := h.DB.WithContext(c.Request.Context()).First(&m, web.MemberID(c)).Error; err != nil {
		web.DBError(c, err, "Failed to load member")
		return nil, false
	}
	return &m, true
}

// providerFailed sends the member back to the form they came from.
func providerFailed(c *gin.Context, err error, location, msg string) {
	logging.Ctx(c.Request.Context()).Warn().Err(err).Uint("member_id", web.MemberID(c)).Msg(msg)
	web.Redirect(c, location, web.FlashError, msg)
}

// GET /subscription/create
func (h *Handler) Create(c *gin.Context) {
	m, ok := h.member(c)
	if !ok {
		return
	}

	secret, err := h.Billing.SetupIntent(c.Request.Context(), m)
	if err != nil {
		providerFailed(c, err, "/", "The payment form could not be prepared. Please try again later.")
		return
	}

	web.Page(c, gin.H{"intent": gin.H{"client_secret": secret}})
}

// POST /subscription
func (h *Handler) Store(c *gin.Context) {
	var input paymentMethodInput
	if !validation.Bind(c, &input) {
		return
	}

	m, ok := h.member(c)
	if !ok {
		return
	}

	_, err := h.Billing.Subscribe(c.Request.Context(), m, input.PaymentMethodID)
	switch {
	case err == nil:
		logging.Ctx(c.Request.Context()).Info().Uint("member_id", m.ID).Msg("premium subscription started")
		web.Redirect(c, "/", web.FlashSuccess, "Your premium membership has started.")
	case errors.Is(err, billing.ErrAlreadySubscribed):
		web.Redirect(c, access.PathSubscriptionEdit, web.FlashError, "You are already a premium member.")
	default:
		providerFailed(c, err, access.PathSubscriptionCreate, "Your subscription could not be started. Please check your card and try again.")
	}
}

// GET /subscription/cancel
func (h *Handler) Cancel(c *gin.Context) {
	web.Page(c, gin.H{})
}

// DELETE /subscription
func (h *Handler) Destroy(c *gin.Context) {
	m, ok := h.member(c)
	if !ok {
		return
	}

	if err := h.Billing.Cancel(c.Request.Context(), m); err != nil {
		providerFailed(c, err, PathSubscriptionCancel, "Your subscription could not be canceled. Please try again later.")
		return
	}

	logging.Ctx(c.Request.Context()).Info().Uint("member_id", m.ID).Msg("premium subscription canceled")
	web.Redirect(c, "/", web.FlashSuccess, "Your premium membership has been canceled.")
}
