package restaurants

import "time"

// MaxCategories is the number of categories a restaurant may carry.
const MaxCategories = 3

type Restaurant struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	LowestPrice     int        `json:"lowest_price"`
	HighestPrice    int        `json:"highest_price"`
	PostalCode      string     `gorm:"size:7" json:"postal_code"`
	Address         string     `json:"address"`
	OpeningTime     string     `gorm:"size:8" json:"opening_time"`
	ClosingTime     string     `gorm:"size:8" json:"closing_time"`
	SeatingCapacity int        `json:"seating_capacity"`
	Categories      []Category `gorm:"many2many:category_restaurant;" json:"categories"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favorite is a (member, restaurant) pair; the row's existence is the favorite.
type Favorite struct {
	MemberID     uint       `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
	RestaurantID uint       `gorm:"primaryKey;autoIncrement:false" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"constraint:OnDelete:CASCADE" json:"restaurant"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// CategoryIDs returns the ids of the loaded categories.
func (r Restaurant) CategoryIDs() []uint {
	ids := make([]uint, 0, len(r.Categories))
	for _, c := range r.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
