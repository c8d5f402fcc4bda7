package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Scoped binds db to ctx with an upper bound so a stuck connection surfaces
// as an error instead of hanging the request. The returned cancel func must
// be called on every exit path.
func Scoped(ctx context.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return db.WithContext(ctx), cancel
}

// Owner returns a GORM scope that filters rows by user_id.
func Owner(userID any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
