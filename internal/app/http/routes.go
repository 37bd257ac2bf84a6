package routes

import (
	"net/http"
	"time"

	adminapi "restaurant-app/internal/api/admin"
	authapi "restaurant-app/internal/api/auth"
	billingapi "restaurant-app/internal/api/billing"
	favoritesapi "restaurant-app/internal/api/favorites"
	reservationsapi "restaurant-app/internal/api/reservations"
	restaurantsapi "restaurant-app/internal/api/restaurants"
	reviewsapi "restaurant-app/internal/api/reviews"
	siteapi "restaurant-app/internal/api/site"
	stripewebhooks "restaurant-app/internal/api/stripewebhook"
	usersapi "restaurant-app/internal/api/users"
	"restaurant-app/internal/app/http/middleware"
	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/billing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Billing  *billing.Service
	Resolver *billing.Resolver

	// Google is nil when Google sign-in is not configured.
	Google        *authapi.GoogleConfig
	WebhookSecret string
	CORSOrigin    string
	LoginLimiter  *middleware.RateLimiter
	Location      *time.Location
}

// Handler is the complete HTTP entry point, method override included.
func Handler(d Deps) http.Handler {
	return middleware.MethodOverride(NewEngine(d))
}

func NewEngine(d Deps) *gin.Engine {
	validation.Register()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	if d.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{d.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-HTTP-Method-Override", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.Identity(d.Sessions))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.LoginLimiter == nil {
		d.LoginLimiter = middleware.NewRateLimiter(10, time.Minute)
	}

	guard := middleware.NewGuard(d.Resolver)

	var (
		storefront = guard.Require(access.Rule{Realm: access.RealmStorefront}, nil)
		member     = guard.Require(access.Rule{Realm: access.RealmMember}, nil)
		premium    = guard.Require(access.Rule{Realm: access.RealmMember, Entitlement: access.EntitlementPremium}, nil)
		free       = guard.Require(access.Rule{Realm: access.RealmMember, Entitlement: access.EntitlementFree}, nil)
		admin      = guard.Require(access.Rule{Realm: access.RealmAdmin}, nil)
	)

	authH := authapi.NewHandler(d.DB, d.Sessions, d.Google)
	restaurantsH := restaurantsapi.NewHandler(d.DB)
	siteH := siteapi.NewHandler(d.DB)
	usersH := usersapi.NewHandler(d.DB)
	reviewsH := reviewsapi.NewHandler(d.DB, d.Resolver)
	reservationsH := reservationsapi.NewHandler(d.DB, d.Location)
	favoritesH := favoritesapi.NewHandler(d.DB)
	subscriptionH := billingapi.NewHandler(d.DB, d.Billing)
	adminH := adminapi.NewHandler(d.DB)
	webhookH := stripewebhooks.NewHandler(d.DB, d.WebhookSecret)

	// Raw bodies: the webhook signature covers the exact payload.
	r.POST("/webhook", webhookH.Receive)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/")
	app.Use(middleware.SanitizeAndCleanInputMiddleware())

	// Authentication
	app.GET("/login", authH.LoginPage)
	app.POST("/login", d.LoginLimiter.Throttle("member_login"), authH.Login)
	app.POST("/register", authH.Register)
	app.POST("/logout", authH.Logout)
	if d.Google != nil {
		app.GET("/auth/google", authH.GoogleStart)
		app.GET("/auth/google/callback", authH.GoogleCallback)
	}

	// Storefront
	app.GET("/", storefront, restaurantsH.Home)
	app.GET("/restaurants", storefront, restaurantsH.Index)
	app.GET("/restaurants/:restaurant", storefront, restaurantsH.Show)
	app.GET("/company", storefront, siteH.Company)
	app.GET("/terms", storefront, siteH.Terms)

	// Member profile
	ownProfile := guard.Require(access.Rule{
		Realm:         access.RealmMember,
		Owner:         usersapi.OwnsProfile,
		OwnerRedirect: func(any) string { return usersapi.PathProfile },
	}, usersH.LoadMember)
	app.GET("/user", member, usersH.Index)
	app.GET("/user/:user/edit", ownProfile, usersH.Edit)
	app.PATCH("/user/:user", ownProfile, usersH.Update)

	// Reviews
	ownReview := guard.Require(access.Rule{
		Realm:         access.RealmMember,
		Entitlement:   access.EntitlementPremium,
		Owner:         reviewsapi.OwnsReview,
		OwnerRedirect: reviewsapi.ReviewIndexRedirect,
	}, reviewsH.LoadReview)
	app.GET("/restaurants/:restaurant/reviews", member, reviewsH.Index)
	app.GET("/restaurants/:restaurant/reviews/create", premium, reviewsH.Create)
	app.POST("/restaurants/:restaurant/reviews", premium, reviewsH.Store)
	app.GET("/restaurants/:restaurant/reviews/:review/edit", ownReview, reviewsH.Edit)
	app.PATCH("/restaurants/:restaurant/reviews/:review", ownReview, reviewsH.Update)
	app.DELETE("/restaurants/:restaurant/reviews/:review", ownReview, reviewsH.Destroy)

	// Reservations
	ownReservation := guard.Require(access.Rule{
		Realm:         access.RealmMember,
		Entitlement:   access.EntitlementPremium,
		Owner:         reservationsapi.OwnsReservation,
		OwnerRedirect: func(any) string { return reservationsapi.PathIndex },
	}, reservationsH.LoadReservation)
	app.GET("/reservations", premium, reservationsH.Index)
	app.GET("/restaurants/:restaurant/reservations/create", premium, reservationsH.Create)
	app.POST("/restaurants/:restaurant/reservations", premium, reservationsH.Store)
	app.DELETE("/reservations/:reservation", ownReservation, reservationsH.Destroy)

	// Favorites
	app.GET("/favorites", premium, favoritesH.Index)
	app.POST("/favorites/:restaurant", premium, favoritesH.Store)
	app.DELETE("/favorites/:restaurant", premium, favoritesH.Destroy)

	// Subscription
	app.GET("/subscription/create", free, subscriptionH.Create)
	app.POST("/subscription", free, subscriptionH.Store)
	app.GET("/subscription/edit", premium, subscriptionH.Edit)
	app.PATCH("/subscription", premium, subscriptionH.Update)
	app.GET("/subscription/cancel", premium, subscriptionH.Cancel)
	app.DELETE("/subscription", premium, subscriptionH.Destroy)

	// Administrator
	app.GET("/admin/login", authH.AdminLoginPage)
	app.POST("/admin/login", d.LoginLimiter.Throttle("admin_login"), authH.AdminLogin)
	app.POST("/admin/logout", authH.AdminLogout)

	adm := app.Group("/admin")
	adm.Use(admin)
	adm.GET("", adminH.Dashboard)

	adm.GET("/restaurants", adminH.RestaurantIndex)
	adm.GET("/restaurants/create", adminH.RestaurantCreate)
	adm.POST("/restaurants", adminH.RestaurantStore)
	adm.GET("/restaurants/:restaurant", adminH.RestaurantShow)
	adm.GET("/restaurants/:restaurant/edit", adminH.RestaurantEdit)
	adm.PATCH("/restaurants/:restaurant", adminH.RestaurantUpdate)
	adm.DELETE("/restaurants/:restaurant", adminH.RestaurantDestroy)

	adm.GET("/categories", adminH.CategoryIndex)
	adm.POST("/categories", adminH.CategoryStore)
	adm.PATCH("/categories/:category", adminH.CategoryUpdate)
	adm.DELETE("/categories/:category", adminH.CategoryDestroy)

	adm.GET("/users", adminH.UserIndex)
	adm.GET("/users/:user", adminH.UserShow)

	adm.GET("/company", adminH.CompanyIndex)
	adm.GET("/company/:company/edit", adminH.CompanyEdit)
	adm.PATCH("/company/:company", adminH.CompanyUpdate)

	adm.GET("/terms", adminH.TermIndex)
	adm.GET("/terms/:term/edit", adminH.TermEdit)
	adm.PATCH("/terms/:term", adminH.TermUpdate)
}
