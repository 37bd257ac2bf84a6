package admin

import (
	"fmt"
	"strings"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/reservations"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const PathRestaurants = "/admin/restaurants"

type restaurantInput struct {
	Name            string `form:"name" json:"name" binding:"required,max=255"`
	Description     string `form:"description" json:"description" binding:"required"`
	LowestPrice     *int   `form:"lowest_price" json:"lowest_price" binding:"required,min=0"`
	HighestPrice    *int   `form:"highest_price" json:"highest_price" binding:"required,min=0"`
	PostalCode      string `form:"postal_code" json:"postal_code" binding:"required,len=7,digits"`
	Address         string `form:"address" json:"address" binding:"required,max=255"`
	OpeningTime     string `form:"opening_time" json:"opening_time" binding:"required,clock"`
	ClosingTime     string `form:"closing_time" json:"closing_time" binding:"required,clock"`
	SeatingCapacity int    `form:"seating_capacity" json:"seating_capacity" binding:"required,min=1"`
	CategoryIDs     []uint `form:"category_ids" json:"category_ids" binding:"omitempty,max=3"`
}

func (in restaurantInput) columns() map[string]interface{} {
	return map[string]interface{}{
		"name":             in.Name,
		"description":      in.Description,
		"lowest_price":     *in.LowestPrice,
		"highest_price":    *in.HighestPrice,
		"postal_code":      in.PostalCode,
		"address":          in.Address,
		"opening_time":     in.OpeningTime,
		"closing_time":     in.ClosingTime,
		"seating_capacity": in.SeatingCapacity,
	}
}

// bindRestaurant binds and validates the form, including the rules that span
// fields or need the database. The categories are returned loaded.
func (h *Handler) bindRestaurant(c *gin.Context) (*restaurantInput, []restaurants.Category, bool) {
	var input restaurantInput
	if !validation.Bind(c, &input) {
		return nil, nil, false
	}

	errs := validation.Errors{}
	if *input.LowestPrice > *input.HighestPrice {
		errs["lowest_price"] = "The lowest price must not exceed the highest price."
	}

	ids := uniqueIDs(input.CategoryIDs)
	cats := []restaurants.Category{}
	if len(ids) > 0 {
		if err := h.DB.WithContext(c.Request.Context()).Where("id IN ?", ids).Find(&cats).Error; err != nil {
			web.ServerError(c, err, "Failed to load categories")
			return nil, nil, false
		}
		if len(cats) != len(ids) {
			errs["category_ids"] = "The selected categories are invalid."
		}
	}

	if len(errs) > 0 {
		validation.Fail(c, errs, input)
		return nil, nil, false
	}
	return &input, cats, true
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (h *Handler) loadRestaurant(c *gin.Context) (*restaurants.Restaurant, bool) {
	id, ok := web.ParseID(c, "restaurant")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var r restaurants.Restaurant
	if err := h.DB.WithContext(c.Request.Context()).Preload("Categories").First(&r, id).Error; err != nil {
		web.DBError(c, err, "Failed to load restaurant")
		return nil, false
	}
	return &r, true
}

func (h *Handler) allCategories(c *gin.Context) ([]restaurants.Category, bool) {
	cats := []restaurants.Category{}
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&cats).Error; err != nil {
		web.ServerError(c, err, "Failed to load categories")
		return nil, false
	}
	return cats, true
}

// GET /admin/restaurants
func (h *Handler) RestaurantIndex(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page := web.Paginate(c, web.DefaultPageSize)

	q := h.DB.WithContext(c.Request.Context()).Model(&restaurants.Restaurant{})
	if keyword != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", restaurants.LikePattern(keyword))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		web.ServerError(c, err, "Failed to count restaurants")
		return
	}

	list := []restaurants.Restaurant{}
	if err := q.Order("id ASC").Limit(page.PerPage).Offset(page.Offset()).Find(&list).Error; err != nil {
		web.ServerError(c, err, "Failed to load restaurants")
		return
	}

	web.Page(c, gin.H{
		"restaurants": list,
		"total":       total,
		"keyword":     keyword,
		"pagination":  page.WithTotal(total),
	})
}

// GET /admin/restaurants/create
func (h *Handler) RestaurantCreate(c *gin.Context) {
	cats, ok := h.allCategories(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"categories": cats})
}

// POST /admin/restaurants
func (h *Handler) RestaurantStore(c *gin.Context) {
	input, cats, ok := h.bindRestaurant(c)
	if !ok {
		return
	}

	r := restaurants.Restaurant{
		Name:            input.Name,
		Description:     input.Description,
		LowestPrice:     *input.LowestPrice,
		HighestPrice:    *input.HighestPrice,
		PostalCode:      input.PostalCode,
		Address:         input.Address,
		OpeningTime:     input.OpeningTime,
		ClosingTime:     input.ClosingTime,
		SeatingCapacity: input.SeatingCapacity,
		Categories:      cats,
	}

	// Categories.* skips re-saving the category rows; the join rows are still written.
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Categories.*").Create(&r).Error
	})
	if err != nil {
		web.ServerError(c, err, "Failed to create restaurant")
		return
	}
	web.Redirect(c, PathRestaurants, web.FlashSuccess, "The restaurant has been registered.")
}

// GET /admin/restaurants/:restaurant
func (h *Handler) RestaurantShow(c *gin.Context) {
	r, ok := h.loadRestaurant(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"restaurant": r})
}

// GET /admin/restaurants/:restaurant/edit
func (h *Handler) RestaurantEdit(c *gin.Context) {
	r, ok := h.loadRestaurant(c)
	if !ok {
		return
	}
	cats, ok := h.allCategories(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{
		"restaurant":   r,
		"categories":   cats,
		"category_ids": r.CategoryIDs(),
	})
}

// PATCH /admin/restaurants/:restaurant
func (h *Handler) RestaurantUpdate(c *gin.Context) {
	r, ok := h.loadRestaurant(c)
	if !ok {
		return
	}
	input, cats, ok := h.bindRestaurant(c)
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&restaurants.Restaurant{}).Where("id = ?", r.ID).Updates(input.columns()).Error; err != nil {
			return err
		}
		assoc := tx.Model(r).Association("Categories")
		if len(cats) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(cats)
	})
	if err != nil {
		web.ServerError(c, err, "Failed to update restaurant")
		return
	}
	web.Redirect(c, fmt.Sprintf("%s/%d", PathRestaurants, r.ID), web.FlashSuccess, "The restaurant has been updated.")
}

// DELETE /admin/restaurants/:restaurant
// Reviews, reservations, favorites and category links go with the restaurant.
func (h *Handler) RestaurantDestroy(c *gin.Context) {
	r, ok := h.loadRestaurant(c)
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		dependents := []any{&reviews.Review{}, &reservations.Reservation{}, &restaurants.Favorite{}}
		for _, model := range dependents {
			if err := tx.Where("restaurant_id = ?", r.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(r).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&restaurants.Restaurant{}, r.ID).Error
	})
	if err != nil {
		web.ServerError(c, err, "Failed to delete restaurant")
		return
	}
	web.Redirect(c, PathRestaurants, web.FlashSuccess, "The restaurant has been deleted.")
}
