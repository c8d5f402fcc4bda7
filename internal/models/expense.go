package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ExpenseCategories = []string{
	"Food",
	"Transport",
	"Utilities",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Education",
	"Travel",
	"Other",
}

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
