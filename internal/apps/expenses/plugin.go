package expenses

import (
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ExpensesPlugin struct{}

func New() *ExpensesPlugin {
	return &ExpensesPlugin{}
}

func (p *ExpensesPlugin) ID() string { return "expenses" }

func (p *ExpensesPlugin) Models() []any {
	return []any{&models.Expense{}}
}

func (p *ExpensesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewExpenseHandler(NewExpenseService(db, cfg))

	router.Get("/expenses", handler.List)
	router.Post("/expenses", handler.Create)
	router.Get("/expenses/stats", handler.Stats)
	router.Get("/expenses/export", middleware.RequireFeature(subscription.TierAdvanced), handler.Export)
	router.Get("/expenses/insights", middleware.RequireFeature(subscription.TierAI), handler.Insights)
	router.Put("/expenses/:id", handler.Update)
	router.Delete("/expenses/:id", handler.Delete)
}

func (p *ExpensesPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewExpenseHandler(NewExpenseService(db, cfg))

	router.Get("/expenses/overview", handler.Overview)
}

func (p *ExpensesPlugin) RegisterPageRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewExpenseHandler(NewExpenseService(db, cfg))

	router.Get("/dashboard", handler.Dashboard)
}
