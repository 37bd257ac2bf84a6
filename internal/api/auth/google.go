package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/logging"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleIssuer = "https://accounts.google.com"

// GoogleConfig holds the OAuth client used for "Sign in with Google".
type GoogleConfig struct {
	OAuth *oauth2.Config
}

func NewGoogleConfig(clientID, clientSecret, redirectURL string) *GoogleConfig {
	return &GoogleConfig{OAuth: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)

	url := h.Google.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	ctx := c.Request.Context()
	tok, err := h.Google.OAuth.Exchange(ctx, code)
	if err != nil {
		web.Redirect(c, access.PathMemberLogin, web.FlashError, "Google sign-in failed.")
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		web.Redirect(c, access.PathMemberLogin, web.FlashError, "Google sign-in failed.")
		return
	}

	claims, err := h.verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("google id token rejected")
		web.Redirect(c, access.PathMemberLogin, web.FlashError, "Google sign-in failed.")
		return
	}

	member, err := findOrCreateGoogleMember(h.DB.WithContext(ctx), claims)
	if err != nil {
		web.ServerError(c, err, "Failed to create member")
		return
	}

	if err := h.Sessions.Login(c, access.RealmMember, member.ID); err != nil {
		web.ServerError(c, err, "Could not create session")
		return
	}
	web.Redirect(c, access.PathMemberHome, web.FlashSuccess, "You are now logged in.")
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (h *Handler) verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: h.Google.OAuth.ClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	if !claims.EmailVerified {
		return nil, errors.New("google email not verified")
	}
	return &claims, nil
}

// findOrCreateGoogleMember matches by Google subject, then by email (linking
// the subject), and creates a member otherwise.
func findOrCreateGoogleMember(db *gorm.DB, gc *googleIDClaims) (users.Member, error) {
	var member users.Member
	email := strings.ToLower(gc.Email)

	err := db.Where("google_sub = ?", gc.Sub).First(&member).Error
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.Member{}, err
	}

	err = db.Where("email = ?", email).First(&member).Error
	if err == nil {
		if member.GoogleSub == nil {
			sub := gc.Sub
			if err := db.Model(&member).Update("google_sub", sub).Error; err != nil {
				return users.Member{}, err
			}
			member.GoogleSub = &sub
		}
		return member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.Member{}, err
	}

	sub := gc.Sub
	member = users.Member{
		Name:         firstNonEmpty(gc.Name, email),
		Email:        email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
	}
	if err := db.Create(&member).Error; err != nil {
		return users.Member{}, err
	}
	return member, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
