package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	IsAdmin          bool              `json:"isAdmin"`
	SubscriptionType subscription.Type `json:"subscriptionType"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpenseCount  int64     `json:"expenseCount"`
	TotalExpenses float64   `json:"totalExpenses"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// GateResponse is the JSON form of an access gate denial.
type GateResponse struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
