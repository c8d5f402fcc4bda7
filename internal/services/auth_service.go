package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/session"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a user with no subscription. It does not issue tokens.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	email := normalizeEmail(req.Email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Password:         string(hash),
		SubscriptionType: subscription.TypeNone,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := userResponse(&user)
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	var user models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(db, &user)
}

// Refresh rotates a refresh token. The new access token is built from the
// current user row, so subscription changes since the last login show up here.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", hashToken(req.RefreshToken), false).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	if time.Now().UTC().After(stored.ExpiresAt) {
		db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	var resp *dto.AuthResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ?", stored.ID, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		// lost a race with a concurrent refresh
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		var user models.User
		if err := tx.First(&user, "id = ?", stored.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		var err error
		resp, err = s.generateTokenPair(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	return db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
}

// Profile returns the user summary with expense totals.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var totals struct {
		Count int64
		Total float64
	}
	if err := db.Model(&models.Expense{}).
		Scopes(database.Owner(userID)).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	return &dto.ProfileResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		CreatedAt:     user.CreatedAt,
		ExpenseCount:  totals.Count,
		TotalExpenses: totals.Total,
	}, nil
}

// IsAdmin reports the stored admin flag.
func (s *AuthService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	var user models.User
	if err := db.Select("is_admin").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// MakeAdmin grants the admin flag to the user with the given email.
func (s *AuthService) MakeAdmin(ctx context.Context, email string) (*models.User, error) {
	db, cancel := database.Scoped(ctx, s.db, s.cfg.DBQueryTimeout)
	defer cancel()

	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
		return nil, fmt.Errorf("grant admin: %w", err)
	}
	user.IsAdmin = true
	return &user, nil
}

func (s *AuthService) generateTokenPair(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(user, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(db, user, now)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.cfg.JWTAccessExpiry),
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, session.ClaimsFor(user, now, s.cfg.JWTAccessExpiry))
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(db *gorm.DB, user *models.User, now time.Time) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(s.cfg.JWTRefreshExpiry),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		IsAdmin:          u.IsAdmin,
		SubscriptionType: u.SubscriptionType,
		CreatedAt:        u.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
