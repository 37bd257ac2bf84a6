package site

import (
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/site"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /company
func (h *Handler) Company(c *gin.Context) {
	var company site.Company
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").First(&company).Error; err != nil {
		web.DBError(c, err, "Failed to load company")
		return
	}
	web.Page(c, gin.H{"company": company})
}

// GET /terms
func (h *Handler) Terms(c *gin.Context) {
	var term site.Term
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").First(&term).Error; err != nil {
		web.DBError(c, err, "Failed to load terms")
		return
	}
	web.Page(c, gin.H{"term": term})
}
