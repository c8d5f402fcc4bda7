package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/apps"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/apps/expenses"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/logging"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/routes"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()
	console := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if msg := cfg.Validate(); msg != "" {
		slog.Error(msg)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	plugins := []apps.Plugin{
		expenses.New(),
	}

	var pluginModels []any
	for _, p := range plugins {
		pluginModels = append(pluginModels, p.Models()...)
	}
	if err := database.Migrate(db, pluginModels...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(console, dbLogHandler)))

	// Services
	svc := routes.Services{
		Auth:         services.NewAuthService(db, cfg),
		Subscription: services.NewSubscriptionService(db, cfg),
		Cleanup:      services.NewCleanupService(db, cfg),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	routes.Setup(app, cfg, db, svc, plugins)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	jobs := scheduler.New(svc.Cleanup, cfg.CleanupInterval, func(ctx context.Context) (int64, error) {
		return logging.PruneSystemLogs(ctx, db, cfg.LogRetentionDays)
	})
	jobs.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	cancel()
	jobs.Stop()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.SetDefault(slog.New(console))
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
