package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// MemoryStore is a map-backed credential store used by tests and local
// runs without MySQL. Users are keyed by username; every read and write
// goes through a copy so callers never share pointers with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*model.User)}
}

// Create inserts a new user. A duplicate username yields ErrConflict.
func (s *MemoryStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return ErrConflict
	}
	s.users[user.Username] = user.Clone()
	return nil
}

func (s *MemoryStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) GetByToken(_ context.Context, token string) (*model.User, error) {
	return s.find(token, func(u *model.User) string {
		if u.Authentication == nil {
			return ""
		}
		return u.Authentication.Token
	})
}

func (s *MemoryStore) GetByCode(_ context.Context, code string) (*model.User, error) {
	return s.find(code, func(u *model.User) string {
		if u.Authentication == nil {
			return ""
		}
		return u.Authentication.Code
	})
}

func (s *MemoryStore) GetByPasswordRecoveryToken(_ context.Context, token string) (*model.User, error) {
	return s.find(token, func(u *model.User) string { return u.PasswordRecoveryToken })
}

func (s *MemoryStore) GetByEmailValidationToken(_ context.Context, token string) (*model.User, error) {
	return s.find(token, func(u *model.User) string { return u.EmailValidationToken })
}

// UpdateByUsername replaces the stored user wholesale. The username itself
// is immutable, so the key never moves.
func (s *MemoryStore) UpdateByUsername(_ context.Context, username string, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[username]
	if !ok {
		return ErrNotFound
	}
	next := user.Clone()
	next.ID = cur.ID
	next.Username = cur.Username
	next.CreatedAt = cur.CreatedAt
	s.users[username] = next
	return nil
}

// ConsumeCode flips CodeUsed on the Authentication holding code. The check
// and the write happen under one lock.
func (s *MemoryStore) ConsumeCode(_ context.Context, code string, at time.Time) error {
	if strings.TrimSpace(code) == "" {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		a := u.Authentication
		if a != nil && a.Code == code {
			if a.CodeUsed {
				return ErrNotFound
			}
			a.CodeUsed = true
			a.UpdatedAt = at
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) find(key string, field func(*model.User) string) (*model.User, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if field(u) == key {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}
