package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminChecker reports the stored admin flag for a user.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminRequired admits a request when any of these hold:
// 1. X-Admin-Token matches ADMIN_TOKEN
// 2. the session email is listed in ADMIN_EMAILS
// 3. the user row has is_admin set
// The token claim alone is not trusted since it may be stale.
func AdminRequired(checker AdminChecker, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(strings.ToLower(cfg.AdminEmails))

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Token")), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		claims, err := session.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, strings.ToLower(claims.Email)) {
			return c.Next()
		}

		isAdmin, err := checker.IsAdmin(c.UserContext(), claims.UserID)
		if err != nil {
			slog.Warn("admin lookup failed", "user_id", claims.UserID, "error", err)
		}
		if isAdmin {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
