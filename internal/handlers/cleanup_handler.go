package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CleanupHandler lets an external scheduler trigger trial cleanup. The
// shared secret is checked by middleware.CronSecret.
type CleanupHandler struct {
	cleanupService *services.CleanupService
}

func NewCleanupHandler(cleanupService *services.CleanupService) *CleanupHandler {
	return &CleanupHandler{cleanupService: cleanupService}
}

func (h *CleanupHandler) Run(c *fiber.Ctx) error {
	summary, err := h.cleanupService.Run(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}

	slog.Info("cleanup triggered over http", "processed_users", summary.ProcessedUsers, "ip", c.IP())
	return c.JSON(summary)
}
