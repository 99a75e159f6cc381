package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/ports"
)

// AccountService manages the role-bearing sub-identities a user operates
// under. The single-DRONER rule is ultimately backed by the account
// repository's uniqueness guarantee, so concurrent creates cannot race
// past the check.
type AccountService struct {
	accounts ports.AccountRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, logger zerolog.Logger, now func() time.Time) *AccountService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AccountService{accounts: accounts, logger: logger, now: now}
}

func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, displayName string, kind domain.AccountKind) (*domain.Account, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be EMPLOYER or DRONER", domain.ErrValidation)
	}

	now := s.now()
	account, err := s.accounts.Create(ctx, &domain.Account{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: displayName,
		Kind:        kind,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", account.ID.String()).
		Str("kind", string(account.Kind)).
		Msg("account created")
	return account, nil
}

func (s *AccountService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}
