package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogoutService retires the Authentication behind a token.
type LogoutService struct {
	store       CredentialStore
	invalidator *Invalidator
	log         *zap.Logger
}

func NewLogoutService(store CredentialStore, invalidator *Invalidator, log *zap.Logger) *LogoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogoutService{store: store, invalidator: invalidator, log: log}
}

// Execute invalidates the session and hands back callback unchanged; an
// empty callback is allowed.
func (s *LogoutService) Execute(ctx context.Context, token, callback string) (string, error) {
	user, err := lookup(ctx, s.store.GetByToken, token, ErrUnauthorized)
	if err != nil {
		return "", err
	}
	if user.Authentication == nil {
		return "", ErrUnauthorized
	}

	retired := s.invalidator.Invalidate(*user.Authentication)
	user.Authentication = &retired
	user.UpdatedAt = retired.UpdatedAt
	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return "", fmt.Errorf("invalidate authentication: %w", err)
	}

	s.log.Info("logged out", zap.String("username", user.Username))
	return callback, nil
}
