package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User carries identity plus the subscription snapshot that gets copied into session claims.
type User struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string            `gorm:"size:255" json:"name"`
	Email             string            `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string            `gorm:"not null" json:"-"`
	SubscriptionType  subscription.Type `gorm:"size:20;not null;default:'NONE';index" json:"subscriptionType"`
	SubscriptionStart time.Time         `gorm:"not null" json:"subscriptionStart"`
	SubscriptionEnd   *time.Time        `gorm:"index" json:"subscriptionEnd"`
	IsAdmin           bool              `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SubscriptionType == "" {
		u.SubscriptionType = subscription.TypeNone
	}
	if u.SubscriptionStart.IsZero() {
		u.SubscriptionStart = time.Now().UTC()
	}
	return nil
}

// SubscriptionInfo derives the read-only subscription view from the stored fields.
func (u *User) SubscriptionInfo() subscription.Info {
	return subscription.InfoFor(u.SubscriptionType, u.SubscriptionStart, u.SubscriptionEnd)
}
