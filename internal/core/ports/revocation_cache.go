package ports

import (
	"context"
	"time"
)

// RevocationCache is the deny-list for token ids. An entry means "do not
// honor this token even if its signature verifies and it is not yet
// expired". Absence of an entry proves nothing; all other checks still
// apply.
type RevocationCache interface {
	// Revoke writes a tombstone for jti that expires after ttl. A ttl of
	// zero or less is a no-op: the token is already dead on its own.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether jti has been revoked. Callers must treat a
	// non-nil error as revoked (fail closed).
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
