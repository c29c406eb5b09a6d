// Package storage defines the persistence contract for the roller
// service's roll history.
package storage

import (
	"context"
	"time"
)

// RollRecord is one resolved roll request kept for history.
type RollRecord struct {
	ID         int64
	Expression string
	Rendered   string
	Total      int
	CreatedAt  time.Time
}

// Store persists and lists roll history.
type Store interface {
	// SaveRoll stores a record and returns its assigned ID.
	SaveRoll(ctx context.Context, record RollRecord) (int64, error)

	// ListRecent returns the newest records first, at most limit of
	// them. A non-positive limit means the implementation default.
	ListRecent(ctx context.Context, limit int) ([]RollRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
