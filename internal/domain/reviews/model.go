package reviews

import (
	"time"

	"restaurant-app/internal/domain/users"
)

const (
	MinScore = 1
	MaxScore = 5

	// FreePreviewCount is how many reviews a member without a plan sees.
	FreePreviewCount = 3
	// PremiumPageSize is the page size of the review list for premium members.
	PremiumPageSize = 5
)

type Review struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Score        int          `gorm:"not null" json:"score"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	RestaurantID uint         `gorm:"not null;index" json:"restaurant_id"`
	MemberID     uint         `gorm:"not null;index" json:"member_id"`
	Member       users.Member `gorm:"constraint:OnDelete:CASCADE" json:"member"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (r Review) AuthoredBy(memberID uint) bool {
	return r.MemberID == memberID
}
