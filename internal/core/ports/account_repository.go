package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/dronework/marketplace-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
// Create must fail with domain.ErrDronerExists when a second DRONER
// account is attempted for the same user.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
}
