package expenses

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{
	JWTSecret:      "expenses-secret",
	DBQueryTimeout: 5 * time.Second,
}

func day(s string) time.Time {
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-04", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2026-03-04", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 23, 59, 59, 999999999, time.UTC), got)

	got, err = ParseDate("2026-03-04T10:00:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("04/03/2026", false)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestList_FiltersAndOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExpenseService(db, testCfg)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, testutil.UserOpts{})
	other := testutil.CreateUser(t, db, testutil.UserOpts{})

	testutil.CreateExpense(t, db, owner.ID, 10, "Food", day("2026-01-05"))
	testutil.CreateExpense(t, db, owner.ID, 20, "Travel", day("2026-02-10"))
	testutil.CreateExpense(t, db, owner.ID, 30, "Food", day("2026-03-15"))
	testutil.CreateExpense(t, db, other.ID, 99, "Food", day("2026-02-10"))

	all, err := svc.List(ctx, owner.ID, ListFilter{Category: "all"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 30.0, all[0].Amount, "newest first")
	assert.Equal(t, 10.0, all[2].Amount)

	food, err := svc.List(ctx, owner.ID, ListFilter{Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	start := day("2026-02-01")
	end, err := ParseDate("2026-02-10", true)
	require.NoError(t, err)
	window, err := svc.List(ctx, owner.ID, ListFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "Travel", window[0].Category)

	none, err := svc.List(ctx, uuid.New(), ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCreateUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExpenseService(db, testCfg)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, testutil.UserOpts{})
	stranger := testutil.CreateUser(t, db, testutil.UserOpts{})

	before := time.Now().UTC()
	created, err := svc.Create(ctx, owner.ID, ExpenseRequest{Amount: 12.34, Category: "Food", Description: " lunch "})
	require.NoError(t, err)
	assert.Equal(t, "lunch", created.Description)
	assert.WithinDuration(t, before, created.Date, 5*time.Second)

	_, err = svc.Create(ctx, owner.ID, ExpenseRequest{Amount: 1, Category: "Food", Date: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Update(ctx, stranger.ID, created.ID, ExpenseRequest{Amount: 1, Category: "Other"})
	assert.ErrorIs(t, err, services.ErrExpenseNotFound)

	updated, err := svc.Update(ctx, owner.ID, created.ID, ExpenseRequest{Amount: 50, Category: "Shopping"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.Amount)
	assert.Equal(t, "Shopping", updated.Category)
	assert.Empty(t, updated.Description)
	assert.True(t, created.Date.Equal(updated.Date), "date kept when omitted")

	updated, err = svc.Update(ctx, owner.ID, created.ID, ExpenseRequest{Amount: 50, Category: "Shopping", Date: "2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, day("2026-01-01"), updated.Date.UTC())

	assert.ErrorIs(t, svc.Delete(ctx, stranger.ID, created.ID), services.ErrExpenseNotFound)
	require.NoError(t, svc.Delete(ctx, owner.ID, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner.ID, created.ID), services.ErrExpenseNotFound)
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		{Amount: 10, Category: "Food", Date: day("2026-03-01")},
		{Amount: 5.5, Category: "Food", Date: day("2026-02-28")},
		{Amount: 100, Category: "Travel", Date: day("2025-04-30")},
		// older than the twelve month window
		{Amount: 40, Category: "Travel", Date: day("2025-03-31")},
	}

	stats := computeStats(expenses, now)

	assert.Equal(t, 4, stats.ExpenseCount)
	assert.Equal(t, 155.5, stats.TotalAmount)
	assert.Equal(t, 38.88, stats.AverageAmount)
	assert.Equal(t, map[string]float64{"Food": 15.5, "Travel": 140}, stats.CategoryBreakdown)

	require.Len(t, stats.MonthlyTotals, 12)
	assert.Equal(t, "2025-04", stats.MonthlyTotals[0].Month)
	assert.Equal(t, 100.0, stats.MonthlyTotals[0].Total)
	assert.Equal(t, "2026-02", stats.MonthlyTotals[10].Month)
	assert.Equal(t, 5.5, stats.MonthlyTotals[10].Total)
	assert.Equal(t, "2026-03", stats.MonthlyTotals[11].Month)
	assert.Equal(t, 10.0, stats.MonthlyTotals[11].Total)
	for i := 1; i < 10; i++ {
		assert.Zero(t, stats.MonthlyTotals[i].Total, stats.MonthlyTotals[i].Month)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := computeStats(nil, time.Now())
	assert.Zero(t, stats.ExpenseCount)
	assert.Zero(t, stats.AverageAmount)
	assert.Len(t, stats.MonthlyTotals, 12)
	assert.NotNil(t, stats.CategoryBreakdown)
}

func TestComputeInsights(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		{Amount: 300, Category: "Travel", Date: day("2026-03-02")},
		{Amount: 100, Category: "Food", Date: day("2026-03-05")},
		{Amount: 150, Category: "Food", Date: day("2026-02-14")},
	}

	got := computeInsights(expenses, now)

	require.NotNil(t, got.TopCategory)
	assert.Equal(t, "Travel", got.TopCategory.Category)
	assert.Equal(t, 54.5, got.TopCategory.Share)
	assert.Equal(t, 400.0, got.ThisMonthTotal)
	assert.Equal(t, 150.0, got.LastMonthTotal)
	require.NotNil(t, got.MonthOverMonth)
	assert.Equal(t, 166.7, *got.MonthOverMonth)
	require.NotNil(t, got.LargestExpense)
	assert.Equal(t, 300.0, got.LargestExpense.Amount)
	assert.Equal(t, 40.0, got.DailyAverage)
	assert.Len(t, got.Recommendations, 2)
}

func TestComputeInsights_TieBrokenByName(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	got := computeInsights([]models.Expense{
		{Amount: 50, Category: "Travel", Date: day("2026-03-02")},
		{Amount: 50, Category: "Food", Date: day("2026-03-03")},
	}, now)

	assert.Equal(t, "Food", got.TopCategory.Category)
	assert.Nil(t, got.MonthOverMonth, "no baseline last month")
}

func TestComputeInsights_Empty(t *testing.T) {
	got := computeInsights(nil, time.Now())
	assert.Nil(t, got.TopCategory)
	assert.Nil(t, got.MonthOverMonth)
	assert.Len(t, got.Recommendations, 1)
}

func TestExport(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExpenseService(db, testCfg)
	owner := testutil.CreateUser(t, db, testutil.UserOpts{Type: subscription.TypePro})

	testutil.CreateExpense(t, db, owner.ID, 9.5, "Food", day("2026-01-02"))
	testutil.CreateExpense(t, db, owner.ID, 120, "Travel", day("2026-02-03"))

	out, err := svc.Export(context.Background(), owner.ID)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Category", "Amount", "Description"}, records[0])
	assert.Equal(t, []string{"2026-02-03", "Travel", "120.00", ""}, records[1])
	assert.Equal(t, []string{"2026-01-02", "Food", "9.50", ""}, records[2])
}

func TestDashboardAndOverview(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExpenseService(db, testCfg)
	ctx := context.Background()
	pro := testutil.CreateUser(t, db, testutil.UserOpts{Type: subscription.TypePro, End: testutil.TimeIn(72 * time.Hour)})
	other := testutil.CreateUser(t, db, testutil.UserOpts{})
	testutil.CreateExpense(t, db, pro.ID, 10, "Food", time.Now())
	testutil.CreateExpense(t, db, other.ID, 5, "Food", time.Now())
	testutil.CreateExpense(t, db, other.ID, 7, "Other", time.Now())

	dash, err := svc.Dashboard(ctx, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.ExpenseCount)
	assert.True(t, dash.Subscription.IsActive)
	assert.Equal(t, subscription.TypePro, dash.Subscription.Type)

	_, err = svc.Dashboard(ctx, uuid.New())
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.Users)
	assert.Equal(t, int64(3), overview.ExpenseCount)
	assert.Equal(t, 22.0, overview.TotalAmount)
	assert.Equal(t, 15.0, overview.CategoryBreakdown["Food"])
}
