package auth

import (
	"errors"
	"net/http"
	"strings"

	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgBadCredentials = "These credentials do not match our records."

type Handler struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Google   *GoogleConfig
}

func NewHandler(db *gorm.DB, sessions *session.Manager, google *GoogleConfig) *Handler {
	return &Handler{DB: db, Sessions: sessions, Google: google}
}

type loginInput struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

type registerInput struct {
	Name                 string  `form:"name" json:"name" binding:"required,max=255"`
	Kana                 string  `form:"kana" json:"kana" binding:"required,max=255"`
	Email                string  `form:"email" json:"email" binding:"required,email,max=255"`
	Password             string  `form:"password" json:"password" binding:"required,min=8"`
	PasswordConfirmation string  `form:"password_confirmation" json:"password_confirmation" binding:"required,eqfield=Password"`
	PostalCode           string  `form:"postal_code" json:"postal_code" binding:"required,len=7,digits"`
	Address              string  `form:"address" json:"address" binding:"required,max=255"`
	PhoneNumber          string  `form:"phone_number" json:"phone_number" binding:"required,min=10,max=11,digits"`
	Birthday             *string `form:"birthday" json:"birthday" binding:"omitempty,len=8,digits"`
	Occupation           *string `form:"occupation" json:"occupation" binding:"omitempty,max=255"`
}

func (in registerInput) old() gin.H {
	return gin.H{
		"name": in.Name, "kana": in.Kana, "email": in.Email,
		"postal_code": in.PostalCode, "address": in.Address, "phone_number": in.PhoneNumber,
		"birthday": in.Birthday, "occupation": in.Occupation,
	}
}

// GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	if web.MemberID(c) != 0 {
		web.Redirect(c, access.PathMemberHome, "", "")
		return
	}
	web.Page(c, gin.H{"google_enabled": h.Google != nil})
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		validation.Fail(c, validation.FromBinding(err), gin.H{"email": input.Email})
		return
	}

	var member users.Member
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(input.Email)).First(&member).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		web.ServerError(c, err, "Failed to load member")
		return
	}
	if err != nil || member.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*member.Password), []byte(input.Password)) != nil {
		validation.Fail(c, validation.Errors{"email": msgBadCredentials}, gin.H{"email": input.Email})
		return
	}

	if err := h.Sessions.Login(c, access.RealmMember, member.ID); err != nil {
		web.ServerError(c, err, "Could not create session")
		return
	}
	logging.Ctx(c.Request.Context()).Info().Uint("member_id", member.ID).Msg("member logged in")
	web.Redirect(c, access.PathMemberHome, web.FlashSuccess, "You are now logged in.")
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBind(&input); err != nil {
		validation.Fail(c, validation.FromBinding(err), input.old())
		return
	}
	email := strings.ToLower(input.Email)

	db := h.DB.WithContext(c.Request.Context())
	var taken int64
	if err := db.Model(&users.Member{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		web.ServerError(c, err, "Failed to check email")
		return
	}
	if taken > 0 {
		validation.Fail(c, validation.Errors{"email": "The email has already been taken."}, input.old())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		web.ServerError(c, err, "Failed to hash password")
		return
	}
	hashed := string(hashedPassword)

	member := users.Member{
		Name:         input.Name,
		Kana:         input.Kana,
		Email:        email,
		Password:     &hashed,
		AuthProvider: users.ProviderLocal,
		PostalCode:   input.PostalCode,
		Address:      input.Address,
		PhoneNumber:  input.PhoneNumber,
		Birthday:     emptyToNil(input.Birthday),
		Occupation:   emptyToNil(input.Occupation),
	}
	if err := db.Create(&member).Error; err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("member insert failed")
		c.JSON(http.StatusConflict, gin.H{"error": "Email may already exist"})
		return
	}

	if err := h.Sessions.Login(c, access.RealmMember, member.ID); err != nil {
		web.ServerError(c, err, "Could not create session")
		return
	}
	web.Redirect(c, access.PathMemberHome, web.FlashSuccess, "Your account has been created.")
}

// POST /logout
func (h *Handler) Logout(c *gin.Context) {
	h.Sessions.Logout(c, access.RealmMember)
	web.Redirect(c, access.PathMemberHome, web.FlashSuccess, "You have been logged out.")
}

// GET /admin/login
func (h *Handler) AdminLoginPage(c *gin.Context) {
	if web.AdminID(c) != 0 {
		web.Redirect(c, access.PathAdminHome, "", "")
		return
	}
	web.Page(c, gin.H{})
}

// POST /admin/login
func (h *Handler) AdminLogin(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		validation.Fail(c, validation.FromBinding(err), gin.H{"email": input.Email})
		return
	}

	var admin users.Administrator
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", strings.ToLower(input.Email)).First(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		web.ServerError(c, err, "Failed to load administrator")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)) != nil {
		validation.Fail(c, validation.Errors{"email": msgBadCredentials}, gin.H{"email": input.Email})
		return
	}

	if err := h.Sessions.Login(c, access.RealmAdmin, admin.ID); err != nil {
		web.ServerError(c, err, "Could not create session")
		return
	}
	logging.Ctx(c.Request.Context()).Info().Uint("admin_id", admin.ID).Msg("administrator logged in")
	web.Redirect(c, access.PathAdminHome, web.FlashSuccess, "You are now logged in.")
}

// POST /admin/logout
func (h *Handler) AdminLogout(c *gin.Context) {
	h.Sessions.Logout(c, access.RealmAdmin)
	web.Redirect(c, access.PathAdminLogin, web.FlashSuccess, "You have been logged out.")
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
