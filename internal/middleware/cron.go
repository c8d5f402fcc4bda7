package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const CronSecretHeader = "X-Cron-Secret"

// CronSecret guards scheduler-triggered endpoints with a shared secret.
// An empty secret leaves the endpoint open.
func CronSecret(secret string) fiber.Handler {
	if secret == "" {
		slog.Warn("CLEANUP_SECRET is not set; cleanup endpoint is unauthenticated")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		if subtle.ConstantTimeCompare([]byte(c.Get(CronSecretHeader)), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		return c.Next()
	}
}
