package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-app/internal/logging"

	"gorm.io/gorm"
)

// Resolver answers whether a member currently holds the premium plan.
type Resolver struct {
	db       *gorm.DB
	provider Provider
	now      func() time.Time
}

func NewResolver(db *gorm.DB, provider Provider) *Resolver {
	return &Resolver{db: db, provider: provider, now: time.Now}
}

// LatestSubscription returns the member's most recent premium subscription row.
func LatestSubscription(db *gorm.DB, memberID uint) (*Subscription, error) {
	var sub Subscription
	err := db.Where("member_id = ? AND name = ?", memberID, PlanPremium).
		Order("id DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsPremium confirms the member's latest subscription with the provider.
// A missing or already-canceled row means not entitled without a provider call.
// Provider failures are returned as errors, not as "not entitled".
func (r *Resolver) IsPremium(ctx context.Context, memberID uint) (bool, error) {
	sub, err := LatestSubscription(r.db.WithContext(ctx), memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load subscription: %w", err)
	}
	if sub.StripeStatus == StatusCanceled {
		return false, nil
	}

	status, err := r.provider.SubscriptionStatus(ctx, sub.StripeID)
	if err != nil {
		return false, err
	}

	if status != sub.StripeStatus {
		if err := r.sync(ctx, sub, status); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("stripe_id", sub.StripeID).Msg("subscription status sync failed")
		}
	}
	return status.Entitled(), nil
}

func (r *Resolver) sync(ctx context.Context, sub *Subscription, status Status) error {
	updates := map[string]interface{}{"stripe_status": status}
	if status == StatusCanceled && sub.EndsAt == nil {
		updates["ends_at"] = r.now()
	}
	return r.db.WithContext(ctx).Model(&Subscription{}).
		Where("id = ?", sub.ID).
		Updates(updates).Error
}
