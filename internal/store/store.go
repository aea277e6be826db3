// Package store provides persistence for the session index.
package store

import (
	"context"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// Repository defines the interface for persisting session records. The
// index backs the recording-history view; the output documents themselves
// live on the filesystem.
type Repository interface {
	// InsertSession records a newly started session.
	InsertSession(ctx context.Context, rec *domain.SessionRecord) error

	// FinishSession marks a session stopped and stores its final step count.
	FinishSession(ctx context.Context, id string, stoppedAt time.Time, stepCount int64) error

	// GetSession retrieves one session by ID. Returns nil when not found.
	GetSession(ctx context.Context, id string) (*domain.SessionRecord, error)

	// ListSessions returns the most recent sessions, newest first.
	ListSessions(ctx context.Context, limit int) ([]*domain.SessionRecord, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
