package users

import (
	"strings"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const PathProfile = "/user"

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type profileInput struct {
	Name        string  `form:"name" json:"name" binding:"required,max=255"`
	Kana        string  `form:"kana" json:"kana" binding:"required,max=255"`
	Email       string  `form:"email" json:"email" binding:"required,email,max=255"`
	PostalCode  string  `form:"postal_code" json:"postal_code" binding:"required,len=7,digits"`
	Address     string  `form:"address" json:"address" binding:"required,max=255"`
	PhoneNumber string  `form:"phone_number" json:"phone_number" binding:"required,min=10,max=11,digits"`
	Birthday    *string `form:"birthday" json:"birthday" binding:"omitempty,len=8,digits"`
	Occupation  *string `form:"occupation" json:"occupation" binding:"omitempty,max=255"`
}

// LoadMember loads the member named by :user for the ownership check.
func (h *Handler) LoadMember(c *gin.Context) (any, error) {
	id, ok := web.ParseID(c, "user")
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var m users.Member
	if err := h.DB.WithContext(c.Request.Context()).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// OwnsProfile reports whether the member is editing their own profile.
func OwnsProfile(p access.Principal, resource any) bool {
	m, ok := resource.(*users.Member)
	return ok && m.ID == p.ID
}

// GET /user
func (h *Handler) Index(c *gin.Context) {
	var m users.Member
	if err := h.DB.WithContext(c.Request.Context()).First(&m, web.MemberID(c)).Error; err != nil {
		web.DBError(c, err, "Failed to load profile")
		return
	}
	web.Page(c, gin.H{"user": m})
}

// GET /user/:user/edit
func (h *Handler) Edit(c *gin.Context) {
	m, _ := web.Resource[*users.Member](c)
	web.Page(c, gin.H{"user": m})
}

// PATCH /user/:user
func (h *Handler) Update(c *gin.Context) {
	m, _ := web.Resource[*users.Member](c)

	var input profileInput
	if !validation.Bind(c, &input) {
		return
	}
	email := strings.ToLower(input.Email)

	db := h.DB.WithContext(c.Request.Context())
	var taken int64
	if err := db.Model(&users.Member{}).Where("email = ? AND id <> ?", email, m.ID).Count(&taken).Error; err != nil {
		web.ServerError(c, err, "Failed to check email")
		return
	}
	if taken > 0 {
		validation.Fail(c, validation.Errors{"email": "The email has already been taken."}, input)
		return
	}

	updates := map[string]interface{}{
		"name":         input.Name,
		"kana":         input.Kana,
		"email":        email,
		"postal_code":  input.PostalCode,
		"address":      input.Address,
		"phone_number": input.PhoneNumber,
		"birthday":     blankToNil(input.Birthday),
		"occupation":   blankToNil(input.Occupation),
	}
	if err := db.Model(&users.Member{}).Where("id = ?", m.ID).Updates(updates).Error; err != nil {
		web.ServerError(c, err, "Failed to update profile")
		return
	}
	web.Redirect(c, PathProfile, web.FlashSuccess, "Your profile has been updated.")
}

func blankToNil(s *string) interface{} {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}
