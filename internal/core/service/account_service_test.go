package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dronework/marketplace-api/internal/core/domain"
)

func TestAccountService_Create(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, zerolog.Nop(), nil)
	userID := uuid.New()

	account, err := svc.Create(context.Background(), userID, "Sky Surveys", domain.KindDroner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.UserID != userID {
		t.Fatalf("ownership not recorded")
	}
	if !account.IsActive {
		t.Fatalf("new account should be active")
	}
}

func TestAccountService_Create_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, zerolog.Nop(), nil)

	if _, err := svc.Create(context.Background(), uuid.New(), "   ", domain.KindDroner); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.New(), "name", domain.AccountKind("PILOT")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown kind, got %v", err)
	}
}

func TestAccountService_SingleDronerRule(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, zerolog.Nop(), nil)
	userID := uuid.New()

	if _, err := svc.Create(context.Background(), userID, "d1", domain.KindDroner); err != nil {
		t.Fatalf("first droner: %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, "d2", domain.KindDroner); !errors.Is(err, domain.ErrDronerExists) {
		t.Fatalf("expected ErrDronerExists, got %v", err)
	}

	// EMPLOYER accounts are unbounded, and another user may still open a
	// droner account.
	if _, err := svc.Create(context.Background(), userID, "e1", domain.KindEmployer); err != nil {
		t.Fatalf("first employer: %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, "e2", domain.KindEmployer); err != nil {
		t.Fatalf("second employer: %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.New(), "d1", domain.KindDroner); err != nil {
		t.Fatalf("droner for another user: %v", err)
	}

	accounts, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
}
