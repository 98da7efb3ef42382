// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// User operations
	UpsertUser(ctx context.Context, user *model.User) error

	// Receipt and purchase operations
	SaveReceipt(ctx context.Context, receipt *model.Receipt, purchases []model.PurchaseRecord) error
	GetReceipts(ctx context.Context, userID int64, limit int) ([]model.Receipt, error)
	SavePurchases(ctx context.Context, purchases []model.PurchaseRecord) error
	GetPurchases(ctx context.Context, userID int64, since time.Time) ([]model.PurchaseRecord, error)
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)

	// Category operations
	GetKeywordTable(ctx context.Context) (model.KeywordTable, error)
	SetCategoryKeywords(ctx context.Context, category string, keywords []string) error

	// Preference operations
	GetPreferences(ctx context.Context, userID int64) (*model.Preferences, error)
	SavePreferences(ctx context.Context, prefs *model.Preferences) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
