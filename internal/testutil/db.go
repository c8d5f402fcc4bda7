package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// UserOpts overrides fields of a seeded user.
type UserOpts struct {
	Name     string
	Email    string
	Password string
	Type     subscription.Type
	End      *time.Time
	IsAdmin  bool
}

// CreateUser inserts a user and returns it.
func CreateUser(t *testing.T, db *gorm.DB, opts UserOpts) *models.User {
	t.Helper()

	if opts.Email == "" {
		opts.Email = uuid.NewString() + "@example.com"
	}
	if opts.Name == "" {
		opts.Name = "Test User"
	}
	if opts.Type == "" {
		opts.Type = subscription.TypeNone
	}
	password := opts.Password
	if password == "" {
		password = "secret123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:              opts.Name,
		Email:             opts.Email,
		Password:          string(hash),
		SubscriptionType:  opts.Type,
		SubscriptionStart: time.Now().UTC().Add(-time.Hour),
		SubscriptionEnd:   opts.End,
		IsAdmin:           opts.IsAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateExpense inserts an expense owned by userID.
func CreateExpense(t *testing.T, db *gorm.DB, userID uuid.UUID, amount float64, category string, date time.Time) *models.Expense {
	t.Helper()

	e := &models.Expense{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Date:     date.UTC(),
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// TimeAgo returns a pointer to now minus d, in UTC.
func TimeAgo(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(-d)
	return &t
}

// TimeIn returns a pointer to now plus d, in UTC.
func TimeIn(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(d)
	return &t
}
