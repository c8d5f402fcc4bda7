package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/apps"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// PagePrefixes are the server-rendered routes behind the redirecting gate.
var PagePrefixes = []string{"/dashboard", "/profile"}

// Services bundles what the route handlers are built from.
type Services struct {
	Auth         *services.AuthService
	Subscription *services.SubscriptionService
	Cleanup      *services.CleanupService
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	svc Services,
	plugins []apps.Plugin,
) {
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	subscriptionHandler := handlers.NewSubscriptionHandler(svc.Subscription)
	adminHandler := handlers.NewAdminHandler(svc.Subscription)
	cleanupHandler := handlers.NewCleanupHandler(svc.Cleanup)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/metrics", metrics.Handler())

	// Page routes: missing or insufficient subscription redirects.
	app.Use(middleware.SessionOptional(cfg), middleware.SubscriptionGate(middleware.GateConfig{
		Mode:      middleware.GateRedirect,
		Protected: PagePrefixes,
	}))
	app.Get("/profile", authHandler.Profile)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/subscription/plans", subscriptionHandler.Plans)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Scheduler trigger, shared secret instead of a user session
	api.Post("/subscription/cleanup", middleware.CronSecret(cfg.CleanupSecret), cleanupHandler.Run)

	api.Get("/subscription", middleware.JWTProtected(cfg), subscriptionHandler.Get)
	api.Post("/subscription", middleware.JWTProtected(cfg), subscriptionHandler.Submit)
	api.Get("/user/profile", middleware.JWTProtected(cfg), authHandler.Profile)

	admin := api.Group("/admin", middleware.SessionOptional(cfg), middleware.AdminRequired(svc.Auth, cfg))
	admin.Get("/requests", adminHandler.ListRequests)
	admin.Post("/requests", adminHandler.ResolveRequest)
	admin.Get("/users", adminHandler.ListUsers)

	// Plugin API: session plus an active subscription
	protected := api.Group("/p",
		middleware.JWTProtected(cfg),
		middleware.SubscriptionGate(middleware.GateConfig{Mode: middleware.GateJSON, PublicPaths: []string{}}),
	)
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
		if pp, ok := p.(apps.PagePlugin); ok {
			pp.RegisterPageRoutes(app, db, cfg)
		}
	}
}
