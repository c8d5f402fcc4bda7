package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"gorm.io/gorm"
)

// CleanupService deletes users whose free trial has expired, together with
// everything they own. Paid plans are never touched.
type CleanupService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCleanupService(db *gorm.DB, cfg *config.Config) *CleanupService {
	return &CleanupService{db: db, timeout: cfg.DBQueryTimeout}
}

func (s *CleanupService) Run(ctx context.Context) (*dto.CleanupSummary, error) {
	return s.RunAt(ctx, time.Now().UTC())
}

// RunAt processes candidates one at a time. A failure for one user is
// recorded in its result and does not stop the run.
func (s *CleanupService) RunAt(ctx context.Context, now time.Time) (*dto.CleanupSummary, error) {
	var candidates []models.User
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	err := db.Select("id", "email", "subscription_type", "subscription_end").
		Where("subscription_type = ? AND subscription_end < ?", subscription.TypeFreeTrial, now).
		Find(&candidates).Error
	cancel()
	if err != nil {
		return nil, fmt.Errorf("find expired trial users: %w", err)
	}

	results := make([]dto.CleanupResult, 0, len(candidates))
	for _, user := range candidates {
		if !subscription.ShouldDeleteUserDataAt(user.SubscriptionType, user.SubscriptionEnd, now) {
			continue
		}

		if err := s.deleteUser(ctx, &user); err != nil {
			slog.Error("trial cleanup failed", "user_id", user.ID, "action", "cleanup", "error", err)
			metrics.CleanupUsers.WithLabelValues(string(dto.CleanupError)).Inc()
			results = append(results, dto.CleanupResult{
				UserID:  user.ID,
				Status:  dto.CleanupError,
				Message: "Failed to delete user data",
			})
			continue
		}

		metrics.CleanupUsers.WithLabelValues(string(dto.CleanupDeleted)).Inc()
		results = append(results, dto.CleanupResult{
			UserID:  user.ID,
			Status:  dto.CleanupDeleted,
			Message: "User data successfully deleted",
		})
	}

	metrics.CleanupRuns.Inc()
	slog.Info("trial cleanup completed", "candidates", len(candidates), "results", len(results))

	return &dto.CleanupSummary{
		Message:        "Cleanup completed",
		ProcessedUsers: len(candidates),
		Results:        results,
	}, nil
}

func (s *CleanupService) deleteUser(ctx context.Context, user *models.User) error {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.Owner(user.ID)).Delete(&models.Expense{}).Error; err != nil {
			return fmt.Errorf("delete expenses: %w", err)
		}
		if err := tx.Scopes(database.Owner(user.ID)).Delete(&models.SubscriptionRequest{}).Error; err != nil {
			return fmt.Errorf("delete subscription requests: %w", err)
		}
		if err := tx.Scopes(database.Owner(user.ID)).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
