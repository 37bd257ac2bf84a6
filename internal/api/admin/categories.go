package admin

import (
	"strings"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const PathCategories = "/admin/categories"

type categoryInput struct {
	Name string `form:"name" json:"name" binding:"required,max=255"`
}

func (h *Handler) loadCategory(c *gin.Context) (*restaurants.Category, bool) {
	id, ok := web.ParseID(c, "category")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var cat restaurants.Category
	if err := h.DB.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
		web.DBError(c, err, "Failed to load category")
		return nil, false
	}
	return &cat, true
}

// GET /admin/categories
func (h *Handler) CategoryIndex(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page := web.Paginate(c, web.DefaultPageSize)

	q := h.DB.WithContext(c.Request.Context()).Model(&restaurants.Category{})
	if keyword != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", restaurants.LikePattern(keyword))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		web.ServerError(c, err, "Failed to count categories")
		return
	}

	list := []restaurants.Category{}
	if err := q.Order("id ASC").Limit(page.PerPage).Offset(page.Offset()).Find(&list).Error; err != nil {
		web.ServerError(c, err, "Failed to load categories")
		return
	}

	web.Page(c, gin.H{
		"categories": list,
		"total":      total,
		"keyword":    keyword,
		"pagination": page.WithTotal(total),
	})
}

// POST /admin/categories
func (h *Handler) CategoryStore(c *gin.Context) {
	var input categoryInput
	if !validation.Bind(c, &input) {
		return
	}

	cat := restaurants.Category{Name: input.Name}
	if err := h.DB.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		web.ServerError(c, err, "Failed to create category")
		return
	}
	web.Redirect(c, PathCategories, web.FlashSuccess, "The category has been registered.")
}

// PATCH /admin/categories/:category
func (h *Handler) CategoryUpdate(c *gin.Context) {
	cat, ok := h.loadCategory(c)
	if !ok {
		return
	}
	var input categoryInput
	if !validation.Bind(c, &input) {
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Model(cat).Update("name", input.Name).Error; err != nil {
		web.ServerError(c, err, "Failed to update category")
		return
	}
	web.Redirect(c, PathCategories, web.FlashSuccess, "The category has been updated.")
}

// DELETE /admin/categories/:category
func (h *Handler) CategoryDestroy(c *gin.Context) {
	cat, ok := h.loadCategory(c)
	if !ok {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM category_restaurant WHERE category_id = ?", cat.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&restaurants.Category{}, cat.ID).Error
	})
	if err != nil {
		web.ServerError(c, err, "Failed to delete category")
		return
	}
	web.Redirect(c, PathCategories, web.FlashSuccess, "The category has been deleted.")
}
