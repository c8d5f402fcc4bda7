package logging

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"gorm.io/gorm"
)

// PruneSystemLogs deletes system_logs rows older than the retention window
// and reports how many were removed. A non-positive window keeps everything.
func PruneSystemLogs(ctx context.Context, db *gorm.DB, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
