package expenses

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateOnly = "2006-01-02"

var ErrInvalidDate = fmt.Errorf("%w: date must be RFC3339 or YYYY-MM-DD", validation.ErrValidation)

type ExpenseService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewExpenseService(db *gorm.DB, cfg *config.Config) *ExpenseService {
	return &ExpenseService{db: db, timeout: cfg.DBQueryTimeout}
}

// ParseDate accepts RFC3339 or a bare date. A bare date is read as the
// start of that UTC day, or its last instant when endOfDay is set.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if endOfDay {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return t, nil
}

// List returns the owner's expenses, newest first. Category "all" or empty
// means no category filter.
func (s *ExpenseService) List(ctx context.Context, userID uuid.UUID, f ListFilter) ([]models.Expense, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	q := db.Scopes(database.Owner(userID))
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date <= ?", *f.End)
	}

	expenses := make([]models.Expense, 0)
	if err := q.Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, req ExpenseRequest) (*models.Expense, error) {
	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := ParseDate(req.Date, false)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	expense := models.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
	}
	if err := db.Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return &expense, nil
}

// Update replaces amount, category and description. The date is kept when
// the request omits it.
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID uuid.UUID, req ExpenseRequest) (*models.Expense, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	expense, err := s.owned(db, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Date != "" {
		parsed, err := ParseDate(req.Date, false)
		if err != nil {
			return nil, err
		}
		expense.Date = parsed
	}
	expense.Amount = req.Amount
	expense.Category = req.Category
	expense.Description = strings.TrimSpace(req.Description)

	if err := db.Save(expense).Error; err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	res := db.Scopes(database.Owner(userID)).Delete(&models.Expense{}, "id = ?", expenseID)
	if res.Error != nil {
		return fmt.Errorf("delete expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrExpenseNotFound
	}
	return nil
}

// owned loads an expense only if userID owns it. Someone else's expense is
// reported as not found.
func (s *ExpenseService) owned(db *gorm.DB, userID, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := db.Scopes(database.Owner(userID)).First(&expense, "id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	return s.StatsAt(ctx, userID, time.Now().UTC())
}

// StatsAt aggregates all of the owner's expenses. Monthly totals cover the
// twelve calendar months ending with now's month, zero-filled and ascending.
func (s *ExpenseService) StatsAt(ctx context.Context, userID uuid.UUID, now time.Time) (*Stats, error) {
	expenses, err := s.List(ctx, userID, ListFilter{})
	if err != nil {
		return nil, err
	}
	return computeStats(expenses, now), nil
}

func computeStats(expenses []models.Expense, now time.Time) *Stats {
	stats := &Stats{
		ExpenseCount:      len(expenses),
		CategoryBreakdown: make(map[string]float64),
		MonthlyTotals:     make([]MonthlyTotal, 0, 12),
	}

	monthStart := startOfMonth(now)
	index := make(map[string]int, 12)
	for i := 11; i >= 0; i-- {
		key := monthStart.AddDate(0, -i, 0).Format("2006-01")
		index[key] = len(stats.MonthlyTotals)
		stats.MonthlyTotals = append(stats.MonthlyTotals, MonthlyTotal{Month: key})
	}

	for _, e := range expenses {
		stats.TotalAmount += e.Amount
		stats.CategoryBreakdown[e.Category] += e.Amount
		if i, ok := index[e.Date.UTC().Format("2006-01")]; ok {
			stats.MonthlyTotals[i].Total += e.Amount
		}
	}

	if stats.ExpenseCount > 0 {
		stats.AverageAmount = round2(stats.TotalAmount / float64(stats.ExpenseCount))
	}
	stats.TotalAmount = round2(stats.TotalAmount)
	for k, v := range stats.CategoryBreakdown {
		stats.CategoryBreakdown[k] = round2(v)
	}
	for i := range stats.MonthlyTotals {
		stats.MonthlyTotals[i].Total = round2(stats.MonthlyTotals[i].Total)
	}
	return stats
}

// Export renders the owner's expenses as CSV, newest first.
func (s *ExpenseService) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	expenses, err := s.List(ctx, userID, ListFilter{})
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write([]string{"Date", "Category", "Amount", "Description"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.UTC().Format(dateOnly),
			e.Category,
			fmt.Sprintf("%.2f", e.Amount),
			e.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buffer.Bytes(), nil
}

func (s *ExpenseService) Insights(ctx context.Context, userID uuid.UUID) (*Insights, error) {
	return s.InsightsAt(ctx, userID, time.Now().UTC())
}

func (s *ExpenseService) InsightsAt(ctx context.Context, userID uuid.UUID, now time.Time) (*Insights, error) {
	expenses, err := s.List(ctx, userID, ListFilter{})
	if err != nil {
		return nil, err
	}
	return computeInsights(expenses, now), nil
}

func computeInsights(expenses []models.Expense, now time.Time) *Insights {
	out := &Insights{Recommendations: make([]string, 0)}
	if len(expenses) == 0 {
		out.Recommendations = append(out.Recommendations, "Add a few expenses to unlock spending insights.")
		return out
	}

	thisStart := startOfMonth(now)
	lastStart := thisStart.AddDate(0, -1, 0)

	var total float64
	byCategory := make(map[string]float64)
	for i := range expenses {
		e := &expenses[i]
		total += e.Amount
		byCategory[e.Category] += e.Amount

		d := e.Date.UTC()
		switch {
		case !d.Before(thisStart) && !d.After(now):
			out.ThisMonthTotal += e.Amount
		case !d.Before(lastStart) && d.Before(thisStart):
			out.LastMonthTotal += e.Amount
		}

		if out.LargestExpense == nil || e.Amount > out.LargestExpense.Amount {
			out.LargestExpense = e
		}
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	// ties broken by name for stable output
	sort.Slice(categories, func(i, j int) bool {
		if byCategory[categories[i]] != byCategory[categories[j]] {
			return byCategory[categories[i]] > byCategory[categories[j]]
		}
		return categories[i] < categories[j]
	})
	top := categories[0]
	out.TopCategory = &CategoryShare{
		Category: top,
		Total:    round2(byCategory[top]),
		Share:    round1(byCategory[top] / total * 100),
	}

	if out.LastMonthTotal > 0 {
		change := round1((out.ThisMonthTotal - out.LastMonthTotal) / out.LastMonthTotal * 100)
		out.MonthOverMonth = &change
	}
	out.DailyAverage = round2(out.ThisMonthTotal / float64(now.Day()))
	out.ThisMonthTotal = round2(out.ThisMonthTotal)
	out.LastMonthTotal = round2(out.LastMonthTotal)

	if out.TopCategory.Share >= 40 {
		out.Recommendations = append(out.Recommendations, fmt.Sprintf(
			"%s makes up %.0f%% of your spending. A monthly limit there would have the biggest effect.",
			top, out.TopCategory.Share))
	}
	if out.MonthOverMonth != nil {
		switch change := *out.MonthOverMonth; {
		case change >= 20:
			out.Recommendations = append(out.Recommendations, fmt.Sprintf(
				"Spending is up %.0f%% on last month.", change))
		case change <= -10:
			out.Recommendations = append(out.Recommendations, fmt.Sprintf(
				"Spending is down %.0f%% on last month. Keep it up.", -change))
		}
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = append(out.Recommendations, "Your spending is steady. No action needed this month.")
	}
	return out
}

// Dashboard combines stats with the stored subscription of the user.
func (s *ExpenseService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	var user models.User
	err := db.First(&user, "id = ?", userID).Error
	cancel()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Subscription: user.SubscriptionInfo()}, nil
}

// Overview aggregates across all users for admins.
func (s *ExpenseService) Overview(ctx context.Context) (*AdminOverview, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	out := &AdminOverview{CategoryBreakdown: make(map[string]float64)}
	if err := db.Model(&models.User{}).Count(&out.Users).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	var rows []struct {
		Category string
		Count    int64
		Total    float64
	}
	if err := db.Model(&models.Expense{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}
	for _, r := range rows {
		out.ExpenseCount += r.Count
		out.TotalAmount += r.Total
		out.CategoryBreakdown[r.Category] = round2(r.Total)
	}
	out.TotalAmount = round2(out.TotalAmount)
	return out, nil
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
