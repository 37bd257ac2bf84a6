package billing

import (
	"time"

	"restaurant-app/internal/domain/users"
)

// PlanPremium is the only plan offered.
const PlanPremium = "premium_plan"

type Subscription struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	MemberID     uint         `gorm:"not null;index" json:"member_id"`
	Member       users.Member `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name         string       `gorm:"type:varchar(50);not null" json:"name"`
	StripeID     string       `gorm:"column:stripe_id;not null;uniqueIndex:idx_subscriptions_stripe_id" json:"stripe_id"`
	StripeStatus Status       `gorm:"column:stripe_status;type:varchar(30);not null" json:"stripe_status"`
	StripePrice  *string      `gorm:"column:stripe_price" json:"stripe_price"`
	EndsAt       *time.Time   `json:"ends_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
