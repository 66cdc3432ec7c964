// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mariveth/lootsweep/internal/model"
)

// HistoryFilter defines filtering options for discard history queries.
type HistoryFilter struct {
	Since   *time.Time
	BatchID string
	Limit   int
}

// Storage defines the contract for the SQLite persistence layer: the
// durable price cache and the discard history audit log.
type Storage interface {
	// Price cache operations
	SavePrice(ctx context.Context, price model.CachedPrice) error
	GetPrice(ctx context.Context, itemID model.ItemID) (*model.CachedPrice, error)
	GetAllPrices(ctx context.Context) ([]model.CachedPrice, error)
	PrunePrices(ctx context.Context, olderThan time.Time) (int, error)

	// Discard history operations
	SaveDiscardRecord(ctx context.Context, record *model.DiscardRecord) error
	GetDiscardHistory(ctx context.Context, filter HistoryFilter) ([]model.DiscardRecord, error)

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
