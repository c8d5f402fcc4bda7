package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
)

type SubmitRequestBody struct {
	SubscriptionType string  `json:"subscriptionType" validate:"required"`
	Reason           *string `json:"reason" validate:"omitempty,max=2000"`
}

type ResolveRequestBody struct {
	RequestID  string  `json:"requestId"`
	Action     string  `json:"action"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=2000"`
}

// RequestOwner is the owner summary embedded in request listings.
type RequestOwner struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	SubscriptionType subscription.Type `json:"subscriptionType"`
}

type RequestResponse struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"userId"`
	RequestedType subscription.Type    `json:"requestedType"`
	Status        models.RequestStatus `json:"status"`
	Reason        *string              `json:"reason"`
	AdminNotes    *string              `json:"adminNotes"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	User          RequestOwner         `json:"user"`
}

type SubmitResponse struct {
	Message string          `json:"message"`
	Request RequestResponse `json:"request"`
}

type AdminUserResponse struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	IsAdmin           bool              `json:"isAdmin"`
	SubscriptionType  subscription.Type `json:"subscriptionType"`
	SubscriptionStart time.Time         `json:"subscriptionStart"`
	SubscriptionEnd   *time.Time        `json:"subscriptionEnd"`
	IsActive          bool              `json:"isActive"`
	CreatedAt         time.Time         `json:"createdAt"`
	PendingRequests   int64             `json:"pendingRequests"`
}

type CleanupStatus string

const (
	CleanupDeleted CleanupStatus = "deleted"
	CleanupError   CleanupStatus = "error"
)

type CleanupResult struct {
	UserID  uuid.UUID     `json:"userId"`
	Status  CleanupStatus `json:"status"`
	Message string        `json:"message"`
}

type CleanupSummary struct {
	Message        string          `json:"message"`
	ProcessedUsers int             `json:"processedUsers"`
	Results        []CleanupResult `json:"results"`
}

// NewRequestResponse flattens a request and its preloaded owner.
func NewRequestResponse(r *models.SubscriptionRequest) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		RequestedType: r.RequestedType,
		Status:        r.Status,
		Reason:        r.Reason,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		User: RequestOwner{
			ID:               r.User.ID,
			Name:             r.User.Name,
			Email:            r.User.Email,
			SubscriptionType: r.User.SubscriptionType,
		},
	}
}
