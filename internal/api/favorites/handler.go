package favorites

import (
	"fmt"
	"net/url"

	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /favorites
func (h *Handler) Index(c *gin.Context) {
	page := web.Paginate(c, web.DefaultPageSize)
	db := h.DB.WithContext(c.Request.Context())
	memberID := web.MemberID(c)

	var total int64
	if err := db.Model(&restaurants.Favorite{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		web.ServerError(c, err, "Failed to count favorites")
		return
	}

	list := []restaurants.Favorite{}
	err := db.Preload("Restaurant").
		Where("member_id = ?", memberID).
		Order("created_at DESC").Order("restaurant_id DESC").
		Limit(page.PerPage).Offset(page.Offset()).
		Find(&list).Error
	if err != nil {
		web.ServerError(c, err, "Failed to load favorites")
		return
	}

	web.Page(c, gin.H{
		"favorites":  list,
		"pagination": page.WithTotal(total),
	})
}

// POST /favorites/:restaurant
func (h *Handler) Store(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	fav := restaurants.Favorite{MemberID: web.MemberID(c), RestaurantID: r.ID}
	err := h.DB.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		web.ServerError(c, err, "Failed to add favorite")
		return
	}
	web.Redirect(c, back(c, r.ID), web.FlashSuccess, "Added to your favorites.")
}

// DELETE /favorites/:restaurant
func (h *Handler) Destroy(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).
		Where("member_id = ? AND restaurant_id = ?", web.MemberID(c), r.ID).
		Delete(&restaurants.Favorite{}).Error
	if err != nil {
		web.ServerError(c, err, "Failed to remove favorite")
		return
	}
	web.Redirect(c, back(c, r.ID), web.FlashSuccess, "Removed from your favorites.")
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

// back returns the Referer's path and query, or the restaurant page. The host is
// dropped and paths a browser would read as another host are refused.
func back(c *gin.Context, restaurantID uint) string {
	if ref := c.GetHeader("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && isLocalPath(u.Path) {
			if u.RawQuery != "" {
				return u.Path + "?" + u.RawQuery
			}
			return u.Path
		}
	}
	return fmt.Sprintf("/restaurants/%d", restaurantID)
}

// isLocalPath accepts a single leading slash. "//host" and "/\host" are
// protocol-relative to browsers.
func isLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}
