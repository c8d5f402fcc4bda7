package expenses

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
)

// --- DTOs ---

type ExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"required,expense_category"`
	Description string  `json:"description" validate:"max=1000"`
	// RFC3339 or YYYY-MM-DD. Empty means now on create and unchanged on update.
	Date string `json:"date"`
}

type ListFilter struct {
	Category string
	Start    *time.Time
	End      *time.Time
}

type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type Stats struct {
	TotalAmount       float64            `json:"totalAmount"`
	ExpenseCount      int                `json:"expenseCount"`
	AverageAmount     float64            `json:"averageAmount"`
	CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
	MonthlyTotals     []MonthlyTotal     `json:"monthlyTotals"`
}

type CategoryShare struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Share    float64 `json:"share"`
}

type Insights struct {
	TopCategory     *CategoryShare  `json:"topCategory"`
	ThisMonthTotal  float64         `json:"thisMonthTotal"`
	LastMonthTotal  float64         `json:"lastMonthTotal"`
	MonthOverMonth  *float64        `json:"monthOverMonthChange"`
	LargestExpense  *models.Expense `json:"largestExpense"`
	DailyAverage    float64         `json:"dailyAverageThisMonth"`
	Recommendations []string        `json:"recommendations"`
}

type Dashboard struct {
	Stats        *Stats            `json:"stats"`
	Subscription subscription.Info `json:"subscription"`
}

type AdminOverview struct {
	Users             int64              `json:"users"`
	ExpenseCount      int64              `json:"expenseCount"`
	TotalAmount       float64            `json:"totalAmount"`
	CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
}

type DeleteExpenseResponse struct {
	Message string `json:"message"`
}
