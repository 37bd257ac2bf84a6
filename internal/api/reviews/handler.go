package reviews

import (
	"fmt"

	"restaurant-app/internal/app/http/middleware"
	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB       *gorm.DB
	Resolver middleware.EntitlementResolver
}

func NewHandler(db *gorm.DB, resolver middleware.EntitlementResolver) *Handler {
	return &Handler{DB: db, Resolver: resolver}
}

type reviewInput struct {
	Score   int    `form:"score" json:"score" binding:"required,min=1,max=5"`
	Content string `form:"content" json:"content" binding:"required"`
}

// IndexPath is the review list of a restaurant.
func IndexPath(restaurantID uint) string {
	return fmt.Sprintf("/restaurants/%d/reviews", restaurantID)
}

// LoadReview loads :review scoped to :restaurant.
func (h *Handler) LoadReview(c *gin.Context) (any, error) {
	restaurantID, ok := web.ParseID(c, "restaurant")
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	reviewID, ok := web.ParseID(c, "review")
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	var r reviews.Review
	err := h.DB.WithContext(c.Request.Context()).
		Where("id = ? AND restaurant_id = ?", reviewID, restaurantID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func OwnsReview(p access.Principal, resource any) bool {
	r, ok := resource.(*reviews.Review)
	return ok && r.AuthoredBy(p.ID)
}

// ReviewIndexRedirect sends a non-author back to the restaurant's review list.
func ReviewIndexRedirect(resource any) string {
	if r, ok := resource.(*reviews.Review); ok {
		return IndexPath(r.RestaurantID)
	}
	return "/restaurants"
}

func (h *Handler) restaurant(c *gin.Context) (*restaurants.Restaurant, bool) {
	id, ok := web.ParseID(c, "restaurant")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var r restaurants.Restaurant
	if err := h.DB.WithContext(c.Request.Context()).First(&r, id).Error; err != nil {
		web.DBError(c, err, "Failed to load restaurant")
		return nil, false
	}
	return &r, true
}

// GET /restaurants/:restaurant/reviews
// Premium members page through every review; others see the latest few.
func (h *Handler) Index(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	premium, resolved := web.Premium(c)
	if !resolved {
		var err error
		premium, err = h.Resolver.IsPremium(c.Request.Context(), web.MemberID(c))
		if err != nil {
			web.ProviderUnavailable(c, err)
			return
		}
	}

	db := h.DB.WithContext(c.Request.Context())
	base := func() *gorm.DB {
		return db.Model(&reviews.Review{}).Where("restaurant_id = ?", r.ID)
	}

	list := []reviews.Review{}
	body := gin.H{"restaurant": r, "premium": premium}

	if premium {
		page := web.Paginate(c, reviews.PremiumPageSize)
		var total int64
		if err := base().Count(&total).Error; err != nil {
			web.ServerError(c, err, "Failed to count reviews")
			return
		}
		if err := base().Preload("Member").
			Order("created_at DESC").Order("id DESC").
			Limit(page.PerPage).Offset(page.Offset()).
			Find(&list).Error; err != nil {
			web.ServerError(c, err, "Failed to load reviews")
			return
		}
		body["pagination"] = page.WithTotal(total)
	} else {
		if err := base().Preload("Member").
			Order("created_at DESC").Order("id DESC").
			Limit(reviews.FreePreviewCount).
			Find(&list).Error; err != nil {
			web.ServerError(c, err, "Failed to load reviews")
			return
		}
	}

	body["reviews"] = list
	web.Page(c, body)
}

// GET /restaurants/:restaurant/reviews/create
func (h *Handler) Create(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"restaurant": r})
}

// POST /restaurants/:restaurant/reviews
func (h *Handler) Store(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	var input reviewInput
	if !validation.Bind(c, &input) {
		return
	}

	review := reviews.Review{
		Score:        input.Score,
		Content:      input.Content,
		RestaurantID: r.ID,
		MemberID:     web.MemberID(c),
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
		web.ServerError(c, err, "Failed to save review")
		return
	}
	web.Redirect(c, IndexPath(r.ID), web.FlashSuccess, "Your review has been posted.")
}

// GET /restaurants/:restaurant/reviews/:review/edit
func (h *Handler) Edit(c *gin.Context) {
	review, _ := web.Resource[*reviews.Review](c)
	r, ok := h.restaurant(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"restaurant": r, "review": review})
}

// PATCH /restaurants/:restaurant/reviews/:review
func (h *Handler) Update(c *gin.Context) {
	review, _ := web.Resource[*reviews.Review](c)

	var input reviewInput
	if !validation.Bind(c, &input) {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Model(&reviews.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{"score": input.Score, "content": input.Content}).Error
	if err != nil {
		web.ServerError(c, err, "Failed to update review")
		return
	}
	web.Redirect(c, IndexPath(review.RestaurantID), web.FlashSuccess, "Your review has been updated.")
}

// DELETE /restaurants/:restaurant/reviews/:review
func (h *Handler) Destroy(c *gin.Context) {
	review, _ := web.Resource[*reviews.Review](c)

	if err := h.DB.WithContext(c.Request.Context()).Delete(&reviews.Review{}, review.ID).Error; err != nil {
		web.ServerError(c, err, "Failed to delete review")
		return
	}
	web.Redirect(c, IndexPath(review.RestaurantID), web.FlashSuccess, "Your review has been deleted.")
}
