package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dronework/marketplace-api/internal/core/domain"
)

// SessionRepository defines the interface for session persistence.
//
// Deactivation is monotonic: neither Update nor any other operation may
// flip an inactive session back to active.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// Update persists the mutable fields (expires_at, updated_at).
	Update(ctx context.Context, session *domain.Session) (*domain.Session, error)
	// Deactivate sets the active flag to false. Idempotent; returns
	// domain.ErrSessionNotFound for unknown ids.
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// ListActiveByUser returns active sessions most-recent-first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	// SweepExpired flips every active session whose expiry is at or before
	// now to inactive and reports how many rows changed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
