package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"restaurant-app/config"
	"restaurant-app/database"
	authapi "restaurant-app/internal/api/auth"
	routes "restaurant-app/internal/app/http"
	"restaurant-app/internal/app/http/middleware"
	"restaurant-app/internal/app/http/session"
	"restaurant-app/internal/domain/billing"
	payments "restaurant-app/internal/infra/stripe"
	"restaurant-app/internal/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadEnv()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.InitDB(cfg.DBURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("database init failed")
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := database.SeedAdministrator(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logging.Fatal().Err(err).Msg("administrator seed failed")
		}
	}
	if err := database.SeedSite(db); err != nil {
		logging.Fatal().Err(err).Msg("site seed failed")
	}

	if cfg.StripeSecretKey == "" {
		logging.Warn().Msg("STRIPE_SECRET_KEY not set; subscription features will fail")
	}
	provider := payments.NewClient(cfg.StripeSecretKey, payments.DefaultBreakerConfig())
	resolver := billing.NewResolver(db, provider)
	svc := billing.NewService(db, provider, resolver, cfg.StripePremiumPrice)

	secure := strings.HasPrefix(cfg.AppURL, "https://")
	sessions := session.NewManager(cfg.SessionSecret, session.DefaultTTL, secure)

	var google *authapi.GoogleConfig
	if cfg.GoogleEnabled() {
		google = authapi.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(10, time.Minute)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: routes.Handler(routes.Deps{
			DB:            db,
			Sessions:      sessions,
			Billing:       svc,
			Resolver:      resolver,
			Google:        google,
			WebhookSecret: cfg.StripeWebhookSecret,
			CORSOrigin:    cfg.CORSOrigin,
			LoginLimiter:  limiter,
			Location:      time.Local,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
