package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/google"
	"server/internal/sqlinline"
)

// User is an authenticated account.
type User struct {
	ID      string
	Email   string
	Name    string
	Picture string
	Role    string
	Status  domain.UserStatus
}

// Store provisions accounts from verified Google identities. Upsert creates
// the account on first sign-in and refreshes profile fields afterwards.
type Store interface {
	UpsertGoogle(ctx context.Context, identity *google.Identity, role string) (*User, error)
}

// MemoryStore keys accounts by lower-cased email.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) UpsertGoogle(ctx context.Context, identity *google.Identity, role string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(identity.Email)
	user, ok := s.users[key]
	if !ok {
		user = &User{ID: uuid.NewString(), Status: domain.UserActive}
		s.users[key] = user
	}
	user.Email = identity.Email
	user.Name = identity.Name
	user.Picture = identity.Picture
	user.Role = role
	clone := *user
	return &clone, nil
}

var _ Store = (*MemoryStore)(nil)

// PostgresStore persists accounts through the shared SQL runner.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) UpsertGoogle(ctx context.Context, identity *google.Identity, role string) (*User, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QUpsertGoogleUser,
		identity.Subject, identity.Email, identity.Name, identity.Picture, role)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Picture, &user.Role, &user.Status); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

var _ Store = (*PostgresStore)(nil)
