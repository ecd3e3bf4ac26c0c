package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LoginInput carries the submitted credentials and the redirect target.
type LoginInput struct {
	Username string
	Password string
	Callback string
}

// LoginService verifies a password and issues a new Authentication,
// overwriting whatever the user held before.
type LoginService struct {
	store  CredentialStore
	hasher PasswordHasher
	issuer *Issuer
	log    *zap.Logger
}

func NewLoginService(store CredentialStore, hasher PasswordHasher, issuer *Issuer, log *zap.Logger) *LoginService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginService{store: store, hasher: hasher, issuer: issuer, log: log}
}

// Execute returns callback?code=<code> on success.
func (s *LoginService) Execute(ctx context.Context, in LoginInput) (string, error) {
	if in.Callback == "" {
		return "", InvalidInput("callback is required")
	}
	user, err := lookup(ctx, s.store.GetByUsername, strings.TrimSpace(in.Username), ErrInvalidCredentials)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", ErrInvalidUser
	}
	if !s.hasher.Compare(in.Password, user.Password) {
		s.log.Info("login rejected", zap.String("username", user.Username))
		return "", ErrInvalidCredentials
	}

	auth := s.issuer.Create()
	user.Authentication = &auth
	user.UpdatedAt = auth.CreatedAt
	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return "", fmt.Errorf("store authentication: %w", err)
	}

	s.log.Info("login succeeded", zap.String("username", user.Username))
	return WithQuery(in.Callback, "code", auth.Code), nil
}
