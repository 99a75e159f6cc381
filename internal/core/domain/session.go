package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionRevoked = errors.New("session revoked")
var ErrSessionExpired = errors.New("session expired")

// Session is the durable server-side record created on every login. All
// tokens minted for the login carry its id, so revoking the session
// invalidates every token generation at once.
//
// Deactivation is monotonic: once IsActive is false it never flips back.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Host      string    `json:"host"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
