// Package store persists observations to PostgreSQL as a durable,
// append-only log next to the CSV file.
package store

import (
	"context"
	"time"

	"github.com/shady333/gettingHWaccess/internal/history"
)

// ObservationQuery defines optional filters for reading the log back.
type ObservationQuery struct {
	ProductID *string
	SessionID *string
	Since     *time.Time
	Until     *time.Time
	Limit     int // default 100
	Oldest    bool
}

// StoredObservation is one row of the observation log.
type StoredObservation struct {
	ID        int64
	SessionID string
	history.Row
}

// Store defines the observation log operations.
type Store interface {
	history.Writer

	ListObservations(ctx context.Context, q *ObservationQuery) ([]StoredObservation, error)
	ListProductIDs(ctx context.Context) ([]string, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
