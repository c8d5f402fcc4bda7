package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBQueryTimeout:   5 * time.Second,
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func strPtr(s string) *string { return &s }
