package middleware

import (
	"context"
	"fmt"

	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/logging"
	"restaurant-app/internal/metrics"

	"github.com/gin-gonic/gin"
)

type EntitlementResolver interface {
	IsPremium(ctx context.Context, memberID uint) (bool, error)
}

// Loader fetches the route's target resource. gorm.ErrRecordNotFound becomes a 404.
type Loader func(c *gin.Context) (any, error)

type Guard struct {
	resolver EntitlementResolver
}

func NewGuard(resolver EntitlementResolver) *Guard {
	return &Guard{resolver: resolver}
}

// Require enforces rule on the route. The entitlement is only resolved and the
// resource only loaded once the cheaper identity steps have passed.
// It panics on an invalid rule so misconfigured routes fail at start-up.
func (g *Guard) Require(rule access.Rule, load Loader) gin.HandlerFunc {
	if err := rule.Validate(); err != nil {
		panic(err)
	}
	if rule.NeedsResource() && load == nil {
		panic(fmt.Errorf("ownership rule without resource loader"))
	}

	return func(c *gin.Context) {
		req := access.Request{
			Rule:     rule,
			Identity: web.IdentityFrom(c),
			Path:     c.Request.URL.Path,
		}

		if d := access.DecideRealm(req); !d.Allowed {
			deny(c, d)
			return
		}

		if rule.NeedsEntitlement() {
			premium, err := g.resolver.IsPremium(c.Request.Context(), req.Identity.Member.ID)
			if err != nil {
				web.ProviderUnavailable(c, err)
				return
			}
			req.Premium = premium
			web.SetPremium(c, premium)

			if d := access.DecideEntitlement(req); !d.Allowed {
				deny(c, d)
				return
			}
		}

		if load != nil {
			resource, err := load(c)
			if err != nil {
				web.DBError(c, err, "failed to load resource")
				return
			}
			req.Resource = resource
			web.SetResource(c, resource)
		}

		d := access.Decide(req)
		if !d.Allowed {
			deny(c, d)
			return
		}

		metrics.RecordAccessDecision(string(d.Reason))
		c.Next()
	}
}

func deny(c *gin.Context, d access.Decision) {
	metrics.RecordAccessDecision(string(d.Reason))
	logging.Ctx(c.Request.Context()).Debug().
		Str("path", c.Request.URL.Path).
		Str("reason", string(d.Reason)).
		Str("redirect", d.Redirect).
		Msg("access denied")
	web.Redirect(c, d.Redirect, web.FlashError, d.Message)
}
