package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Terminal reports whether an admin has already resolved the request.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// SubscriptionRequest is the audit trail of upgrade/access requests. Rows are
// never deleted in normal flow.
type SubscriptionRequest struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	RequestedType subscription.Type `gorm:"size:20;not null" json:"requestedType"`
	Status        RequestStatus     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Reason        *string           `gorm:"type:text" json:"reason"`
	AdminNotes    *string           `gorm:"type:text" json:"adminNotes"`
	CreatedAt     time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	User          User              `gorm:"foreignKey:UserID" json:"-"`
}

func (r *SubscriptionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestPending
	}
	return nil
}
