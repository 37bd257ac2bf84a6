package restaurants

import (
	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const homeLatestCount = 6

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /
func (h *Handler) Home(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	latest := []restaurants.Restaurant{}
	if err := db.Preload("Categories").Order("id DESC").Limit(homeLatestCount).Find(&latest).Error; err != nil {
		web.ServerError(c, err, "Failed to load restaurants")
		return
	}

	categories := []restaurants.Category{}
	if err := db.Order("id ASC").Find(&categories).Error; err != nil {
		web.ServerError(c, err, "Failed to load categories")
		return
	}

	web.Page(c, gin.H{
		"new_restaurants": latest,
		"categories":      categories,
	})
}

type indexQuery struct {
	Keyword    string `form:"keyword"`
	CategoryID uint   `form:"category_id"`
	Price      int    `form:"price" binding:"min=0"`
	Sort       string `form:"sort"`
}

// GET /restaurants
func (h *Handler) Index(c *gin.Context) {
	var q indexQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validation.Fail(c, validation.FromBinding(err), q)
		return
	}

	filter := restaurants.Filter{
		Keyword:    q.Keyword,
		CategoryID: q.CategoryID,
		MaxPrice:   q.Price,
		Sort:       q.Sort,
	}
	page := web.Paginate(c, web.DefaultPageSize)
	db := h.DB.WithContext(c.Request.Context())

	list, total, err := restaurants.Search(db, filter, page.PerPage, page.Offset())
	if err != nil {
		web.ServerError(c, err, "Failed to search restaurants")
		return
	}

	categories := []restaurants.Category{}
	if err := db.Order("id ASC").Find(&categories).Error; err != nil {
		web.ServerError(c, err, "Failed to load categories")
		return
	}

	web.Page(c, gin.H{
		"restaurants": list,
		"total":       total,
		"pagination":  page.WithTotal(total),
		"keyword":     q.Keyword,
		"category_id": q.CategoryID,
		"price":       q.Price,
		"sort":        filter.NormalizedSort(),
		"sorts":       restaurants.SortOptions,
		"categories":  categories,
	})
}

// GET /restaurants/:restaurant
func (h *Handler) Show(c *gin.Context) {
	id, ok := web.ParseID(c, "restaurant")
	if !ok {
		web.NotFound(c)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var r restaurants.Restaurant
	if err := db.Preload("Categories").First(&r, id).Error; err != nil {
		web.DBError(c, err, "Failed to load restaurant")
		return
	}

	body := gin.H{"restaurant": r}
	if memberID := web.MemberID(c); memberID != 0 {
		var n int64
		if err := db.Model(&restaurants.Favorite{}).
			Where("member_id = ? AND restaurant_id = ?", memberID, r.ID).
			Count(&n).Error; err != nil {
			web.ServerError(c, err, "Failed to load favorite")
			return
		}
		body["favorited"] = n > 0
	}
	web.Page(c, body)
}
