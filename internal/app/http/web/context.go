package web

import (
	"restaurant-app/internal/domain/access"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	premiumKey  = "premium"
	resourceKey = "resource"
)

func SetIdentity(c *gin.Context, id access.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller's identity, anonymous when none was set.
func IdentityFrom(c *gin.Context) access.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(access.Identity); ok {
			return id
		}
	}
	return access.Identity{}
}

// MemberID returns 0 when no member is signed in.
func MemberID(c *gin.Context) uint {
	if m := IdentityFrom(c).Member; m != nil {
		return m.ID
	}
	return 0
}

func AdminID(c *gin.Context) uint {
	if a := IdentityFrom(c).Admin; a != nil {
		return a.ID
	}
	return 0
}

func SetPremium(c *gin.Context, premium bool) {
	c.Set(premiumKey, premium)
}

// Premium reports the entitlement resolved by the route guard.
func Premium(c *gin.Context) (premium bool, resolved bool) {
	v, ok := c.Get(premiumKey)
	if !ok {
		return false, false
	}
	b, _ := v.(bool)
	return b, true
}

func SetResource(c *gin.Context, resource any) {
	c.Set(resourceKey, resource)
}

// Resource returns the guard-loaded resource as T.
func Resource[T any](c *gin.Context) (T, bool) {
	var zero T
	v, ok := c.Get(resourceKey)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
