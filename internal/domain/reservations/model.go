package reservations

import (
	"time"

	"restaurant-app/internal/domain/restaurants"
)

const (
	MinPeople = 1
	MaxPeople = 50

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Reservation struct {
	ID               uint                   `gorm:"primaryKey" json:"id"`
	ReservedDatetime time.Time              `gorm:"not null;index" json:"reserved_datetime"`
	NumberOfPeople   int                    `gorm:"not null" json:"number_of_people"`
	RestaurantID     uint                   `gorm:"not null;index" json:"restaurant_id"`
	Restaurant       restaurants.Restaurant `gorm:"constraint:OnDelete:CASCADE" json:"restaurant"`
	MemberID         uint                   `gorm:"not null;index" json:"member_id"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func (r Reservation) OwnedBy(memberID uint) bool {
	return r.MemberID == memberID
}

// ParseSlot combines a reservation date and time, interpreted in loc.
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
}
