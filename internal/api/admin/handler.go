package admin

import (
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/reservations"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"
	"restaurant-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PremiumMonthlyFee is the plan price in yen used for the sales estimate.
const PremiumMonthlyFee = 300

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type AdminStats struct {
	TotalMembers      int64 `json:"total_members"`
	PremiumMembers    int64 `json:"premium_members"`
	FreeMembers       int64 `json:"free_members"`
	TotalRestaurants  int64 `json:"total_restaurants"`
	TotalReviews      int64 `json:"total_reviews"`
	TotalReservations int64 `json:"total_reservations"`
	MonthlySales      int64 `json:"monthly_sales"`
}

// GET /admin
// Premium counts come from the locally recorded status; the provider is not queried.
func (h *Handler) Dashboard(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())
	var stats AdminStats

	counts := []struct {
		model any
		dst   *int64
	}{
		{&users.Member{}, &stats.TotalMembers},
		{&restaurants.Restaurant{}, &stats.TotalRestaurants},
		{&reviews.Review{}, &stats.TotalReviews},
		{&reservations.Reservation{}, &stats.TotalReservations},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			web.ServerError(c, err, "Failed to load statistics")
			return
		}
	}

	err := db.Model(&billing.Subscription{}).
		Where("name = ? AND stripe_status IN ?", billing.PlanPremium,
			[]billing.Status{billing.StatusActive, billing.StatusTrialing}).
		Distinct("member_id").
		Count(&stats.PremiumMembers).Error
	if err != nil {
		web.ServerError(c, err, "Failed to load statistics")
		return
	}

	stats.FreeMembers = stats.TotalMembers - stats.PremiumMembers
	stats.MonthlySales = stats.PremiumMembers * PremiumMonthlyFee

	web.Page(c, gin.H{"stats": stats})
}
