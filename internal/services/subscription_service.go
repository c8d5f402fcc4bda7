package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{db: db, timeout: cfg.DBQueryTimeout}
}

// GetInfo derives the subscription view from the stored user row.
func (s *SubscriptionService) GetInfo(ctx context.Context, userID uuid.UUID) (*subscription.Info, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	info := user.SubscriptionInfo()
	return &info, nil
}

// Submit records a PENDING request for requestedType. At most one PENDING
// request per user and type may exist.
func (s *SubscriptionService) Submit(ctx context.Context, userID uuid.UUID, requestedType string, reason *string) (*models.SubscriptionRequest, error) {
	typ, err := subscription.ParseType(requestedType)
	if err != nil {
		return nil, ErrInvalidSubscriptionType
	}

	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	var pending int64
	if err := db.Model(&models.SubscriptionRequest{}).
		Scopes(database.Owner(userID)).
		Where("requested_type = ? AND status = ?", typ, models.RequestPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("check pending requests: %w", err)
	}
	if pending > 0 {
		return nil, ErrDuplicatePendingRequest
	}

	req := models.SubscriptionRequest{
		UserID:        userID,
		RequestedType: typ,
		Status:        models.RequestPending,
		Reason:        nonEmpty(reason),
	}
	if err := db.Create(&req).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicatePendingRequest
		}
		return nil, fmt.Errorf("create subscription request: %w", err)
	}

	if err := db.Preload("User").First(&req, "id = ?", req.ID).Error; err != nil {
		return nil, fmt.Errorf("reload subscription request: %w", err)
	}

	metrics.SubscriptionRequests.WithLabelValues("submitted", string(typ)).Inc()
	slog.Info("subscription request submitted", "user_id", userID, "requested_type", typ, "request_id", req.ID)
	return &req, nil
}

// ListRequests returns every request, newest first, with its owner loaded.
func (s *SubscriptionService) ListRequests(ctx context.Context) ([]models.SubscriptionRequest, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	var requests []models.SubscriptionRequest
	if err := db.Preload("User").Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list subscription requests: %w", err)
	}
	return requests, nil
}

// Resolve moves a PENDING request to APPROVED or REJECTED. Approval also
// grants the requested plan to the owner, starting now, in the same
// transaction.
func (s *SubscriptionService) Resolve(ctx context.Context, requestID, action string, adminNotes *string) (*models.SubscriptionRequest, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, fmt.Errorf("%w: requestId", ErrMissingField)
	}
	status := models.RequestStatus(action)
	if status != models.RequestApproved && status != models.RequestRejected {
		return nil, ErrInvalidAction
	}
	id, err := uuid.Parse(requestID)
	if err != nil {
		// not a key that could exist
		return nil, ErrRequestNotFound
	}

	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	var req models.SubscriptionRequest
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.Status.Terminal() {
			return ErrRequestAlreadyResolved
		}

		res := tx.Model(&models.SubscriptionRequest{}).
			Where("id = ? AND status = ?", id, models.RequestPending).
			Updates(map[string]any{
				"status":      status,
				"admin_notes": nonEmpty(adminNotes),
				"updated_at":  time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestAlreadyResolved
		}

		if status == models.RequestApproved {
			now := time.Now().UTC()
			end := subscription.EndDateFor(req.RequestedType, now)
			if err := tx.Model(&models.User{}).Where("id = ?", req.UserID).Updates(map[string]any{
				"subscription_type":  req.RequestedType,
				"subscription_start": now,
				"subscription_end":   end,
			}).Error; err != nil {
				return fmt.Errorf("grant subscription: %w", err)
			}
		}

		return tx.Preload("User").First(&req, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionRequests.WithLabelValues(strings.ToLower(string(status)), string(req.RequestedType)).Inc()
	slog.Info("subscription request resolved", "request_id", req.ID, "user_id", req.UserID, "status", status)
	return &req, nil
}

// ListUsers returns every user, newest first, with their PENDING request count.
func (s *SubscriptionService) ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	db, cancel := database.Scoped(ctx, s.db, s.timeout)
	defer cancel()

	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var counts []struct {
		UserID uuid.UUID
		Count  int64
	}
	if err := db.Model(&models.SubscriptionRequest{}).
		Select("user_id, COUNT(*) AS count").
		Where("status = ?", models.RequestPending).
		Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}
	pending := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		pending[c.UserID] = c.Count
	}

	out := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.AdminUserResponse{
			ID:                u.ID,
			Name:              u.Name,
			Email:             u.Email,
			IsAdmin:           u.IsAdmin,
			SubscriptionType:  u.SubscriptionType,
			SubscriptionStart: u.SubscriptionStart,
			SubscriptionEnd:   u.SubscriptionEnd,
			IsActive:          subscription.IsActive(u.SubscriptionType, u.SubscriptionEnd),
			CreatedAt:         u.CreatedAt,
			PendingRequests:   pending[u.ID],
		})
	}
	return out, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
