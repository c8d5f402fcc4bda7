package apps

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin is a feature area mounted next to the core subscription routes.
type Plugin interface {
	// ID returns the unique plugin identifier.
	ID() string

	// Models returns the GORM model pointers the plugin needs migrated.
	Models() []any

	// RegisterRoutes mounts the plugin's API on the given group. The group
	// is prefixed with /api/p and sits behind JWT and the subscription gate.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-only routes.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts routes on a group that already requires admin.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// PagePlugin extends Plugin with server-side page routes such as /dashboard.
type PagePlugin interface {
	Plugin

	// RegisterPageRoutes mounts routes behind the redirecting subscription gate.
	RegisterPageRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
