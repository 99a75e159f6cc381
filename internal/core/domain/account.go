package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrForbidden = errors.New("access forbidden")
var ErrDronerExists = errors.New("user already has a droner account")

// AccountKind distinguishes the two sides of the marketplace.
type AccountKind string

const (
	KindEmployer AccountKind = "EMPLOYER"
	KindDroner   AccountKind = "DRONER"
)

// Valid reports whether k is one of the two known kinds.
func (k AccountKind) Valid() bool {
	return k == KindEmployer || k == KindDroner
}

// Account is a role-bearing sub-identity owned by a user. A user may hold
// any number of EMPLOYER accounts but at most one DRONER account.
// Ownership is immutable after creation.
type Account struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	DisplayName string      `json:"display_name"`
	Kind        AccountKind `json:"kind"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
