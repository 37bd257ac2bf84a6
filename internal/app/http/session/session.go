package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"restaurant-app/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	MemberCookie = "member_session"
	AdminCookie  = "admin_session"

	DefaultTTL = 24 * time.Hour
)

var ErrRealmMismatch = errors.New("session realm mismatch")

type Claims struct {
	Realm access.Realm `json:"realm"`
	jwt.RegisteredClaims
}

// Manager issues and reads the signed session cookies of both realms.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

func CookieName(realm access.Realm) string {
	if realm == access.RealmAdmin {
		return AdminCookie
	}
	return MemberCookie
}

func (m *Manager) Issue(realm access.Realm, id uint) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Realm: realm,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return t.SignedString(m.secret)
}

// Parse returns the principal id of a token issued for realm.
func (m *Manager) Parse(tokenString string, realm access.Realm) (uint, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid session: %w", err)
	}
	if claims.Realm != realm {
		return 0, ErrRealmMismatch
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session subject %q", claims.Subject)
	}
	return uint(id), nil
}

// Login sets the session cookie for realm.
func (m *Manager) Login(c *gin.Context, realm access.Realm, id uint) error {
	token, err := m.Issue(realm, id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName(realm), token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

func (m *Manager) Logout(c *gin.Context, realm access.Realm) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName(realm), "", -1, "/", "", m.secure, true)
}

// Identity reads both realm cookies. Invalid or expired cookies are ignored.
func (m *Manager) Identity(r *http.Request) access.Identity {
	var id access.Identity
	if p := m.principal(r, access.RealmMember); p != nil {
		id.Member = p
	}
	if p := m.principal(r, access.RealmAdmin); p != nil {
		id.Admin = p
	}
	return id
}

func (m *Manager) principal(r *http.Request, realm access.Realm) *access.Principal {
	cookie, err := r.Cookie(CookieName(realm))
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, err := m.Parse(cookie.Value, realm)
	if err != nil {
		return nil
	}
	return &access.Principal{Realm: realm, ID: id}
}

// Cookie builds a session cookie without a gin context, for tests and tools.
func (m *Manager) Cookie(realm access.Realm, id uint) (*http.Cookie, error) {
	token, err := m.Issue(realm, id)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{Name: CookieName(realm), Value: token, Path: "/"}, nil
}
