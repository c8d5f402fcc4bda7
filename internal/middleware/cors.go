package middleware

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	// credentialed requests cannot use a wildcard origin
	allowCredentials := cfg.CORSOrigins != "*" && cfg.CORSOrigins != ""

	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Admin-Token, X-Cron-Secret",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: allowCredentials,
	})
}
