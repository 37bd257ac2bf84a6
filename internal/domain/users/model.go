package users

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type Member struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Kana         string  `json:"kana"`
	Email        string  `gorm:"not null;uniqueIndex:idx_members_email" json:"email"`
	Password     *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_members_google_sub" json:"-"`

	PostalCode  string  `json:"postal_code"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number"`
	Birthday    *string `gorm:"size:8" json:"birthday"`
	Occupation  *string `json:"occupation"`

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_members_stripe_customer_id" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Administrator accounts live in their own table; an administrator is never a Member.
type Administrator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"not null;uniqueIndex:idx_administrators_email" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
