package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/dronework/marketplace-api/internal/core/domain"
)

type AccountService interface {
	// Create opens a new account owned by userID. At most one DRONER
	// account may exist per user; EMPLOYER accounts are unbounded.
	Create(ctx context.Context, userID uuid.UUID, displayName string, kind domain.AccountKind) (*domain.Account, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
}
