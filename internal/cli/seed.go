package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoEmail    = "demo@finovo.com"
	demoName     = "Demo User"
	demoPassword = "demo123"
)

type demoExpense struct {
	amount      float64
	category    string
	description string
	date        string
}

var demoExpenses = []demoExpense{
	{25.50, "Food", "Lunch at cafe", "2024-01-15"},
	{12.30, "Transport", "Bus ticket", "2024-01-16"},
	{85.00, "Utilities", "Internet bill", "2024-01-10"},
	{150.00, "Shopping", "Groceries", "2024-01-12"},
	{45.20, "Entertainment", "Movie tickets", "2024-01-18"},
	{32.75, "Food", "Dinner", "2024-01-20"},
	{15.00, "Transport", "Taxi ride", "2024-01-21"},
}

type SeedResult struct {
	Email           string
	ExpensesCreated int
}

// Seed creates the demo user if missing and gives it the sample expenses.
// Running it again leaves an already seeded user untouched.
func Seed(ctx context.Context, db *gorm.DB) (*SeedResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	res := &SeedResult{Email: DemoEmail}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where(models.User{Email: DemoEmail}).
			Attrs(models.User{
				Name:              demoName,
				Password:          string(hash),
				SubscriptionType:  subscription.TypeNone,
				SubscriptionStart: time.Now().UTC(),
			}).
			FirstOrCreate(&user).Error
		if err != nil {
			return fmt.Errorf("upsert demo user: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.Expense{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		rows := make([]models.Expense, 0, len(demoExpenses))
		for _, e := range demoExpenses {
			date, err := time.Parse(time.DateOnly, e.date)
			if err != nil {
				return err
			}
			rows = append(rows, models.Expense{
				UserID:      user.ID,
				Amount:      e.amount,
				Category:    e.category,
				Description: e.description,
				Date:        date,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("create demo expenses: %w", err)
		}
		res.ExpensesCreated = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
