package admin

import (
	"strings"

	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GET /admin/users
func (h *Handler) UserIndex(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page := web.Paginate(c, web.DefaultPageSize)

	q := h.DB.WithContext(c.Request.Context()).Model(&users.Member{})
	if keyword != "" {
		like := restaurants.LikePattern(keyword)
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(kana) LIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		web.ServerError(c, err, "Failed to count members")
		return
	}

	list := []users.Member{}
	if err := q.Order("id ASC").Limit(page.PerPage).Offset(page.Offset()).Find(&list).Error; err != nil {
		web.ServerError(c, err, "Failed to load members")
		return
	}

	web.Page(c, gin.H{
		"users":      list,
		"total":      total,
		"keyword":    keyword,
		"pagination": page.WithTotal(total),
	})
}

// GET /admin/users/:user
func (h *Handler) UserShow(c *gin.Context) {
	id, ok := web.ParseID(c, "user")
	if !ok {
		web.NotFound(c)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var m users.Member
	if err := db.First(&m, id).Error; err != nil {
		web.DBError(c, err, "Failed to load member")
		return
	}

	body := gin.H{"user": m, "subscription": nil}
	if sub, err := billing.LatestSubscription(db, m.ID); err == nil {
		body["subscription"] = sub
	}
	web.Page(c, body)
}
