package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dronework/marketplace-api/internal/core/domain"
	"github.com/dronework/marketplace-api/internal/core/security"
	"github.com/dronework/marketplace-api/internal/core/token"
)

// --- fake clock ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- stub repositories ---

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) setActive(id uuid.UUID, active bool) {
	if u, ok := r.users[id]; ok {
		u.IsActive = active
	}
}

type stubAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account.Kind == domain.KindDroner {
		for _, existing := range r.accounts {
			if existing.UserID == account.UserID && existing.Kind == domain.KindDroner {
				return nil, domain.ErrDronerExists
			}
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type stubSessionRepo struct {
	sessions map[uuid.UUID]*domain.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*domain.Session)}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) (*domain.Session, error) {
	r.sessions[session.ID] = cloneSession(session)
	return cloneSession(session), nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *stubSessionRepo) Update(_ context.Context, session *domain.Session) (*domain.Session, error) {
	existing, ok := r.sessions[session.ID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	// Only the mutable fields; the active flag never comes back to life.
	existing.ExpiresAt = session.ExpiresAt
	existing.UpdatedAt = session.UpdatedAt
	return cloneSession(existing), nil
}

func (r *stubSessionRepo) Deactivate(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.IsActive = false
	return cloneSession(s), nil
}

func (r *stubSessionRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubSessionRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.IsActive && !now.Before(s.ExpiresAt) {
			s.IsActive = false
			n++
		}
	}
	return n, nil
}

// countingHasher wraps the real hasher and records Verify calls, so tests
// can assert a failure path still paid the hashing cost.
type countingHasher struct {
	inner    *security.Hasher
	verifies int
}

func (h *countingHasher) Hash(password string) (string, error) {
	return h.inner.Hash(password)
}

func (h *countingHasher) Verify(password, encoded string) bool {
	h.verifies++
	return h.inner.Verify(password, encoded)
}

// --- stub revocation cache ---

type stubRevocationCache struct {
	entries  map[string]time.Time
	clock    *fakeClock
	readErr  error
	writeErr error
}

func newStubRevocationCache(clock *fakeClock) *stubRevocationCache {
	return &stubRevocationCache{entries: make(map[string]time.Time), clock: clock}
}

func (c *stubRevocationCache) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	if ttl <= 0 {
		return nil
	}
	c.entries[jti] = c.clock.Now().Add(ttl)
	return nil
}

func (c *stubRevocationCache) IsRevoked(_ context.Context, jti string) (bool, error) {
	if c.readErr != nil {
		return false, c.readErr
	}
	expiry, ok := c.entries[jti]
	return ok && expiry.After(c.clock.Now()), nil
}

// --- fixture ---

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = time.Hour
)

type fixture struct {
	clock    *fakeClock
	users    *stubUserRepo
	accounts *stubAccountRepo
	sessions *stubSessionRepo
	cache    *stubRevocationCache
	codec    *token.Codec
	svc      *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	users := newStubUserRepo()
	accounts := newStubAccountRepo()
	sessions := newStubSessionRepo()
	cache := newStubRevocationCache(clock)

	codec, err := token.NewCodec("test-secret", "HS256", testAccessTTL, testRefreshTTL, clock.Now)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	svc, err := NewAuthService(users, accounts, sessions, cache, codec, security.NewHasher(), zerolog.Nop(), clock.Now)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return &fixture{
		clock:    clock,
		users:    users,
		accounts: accounts,
		sessions: sessions,
		cache:    cache,
		codec:    codec,
		svc:      svc,
	}
}

func (f *fixture) signup(t *testing.T, email string) (*domain.User, token.Pair) {
	t.Helper()
	user, pair, err := f.svc.Signup(context.Background(), "203.0.113.7", email, "pw12345678")
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return user, pair
}
