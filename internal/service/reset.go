package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ResetService completes a password reset and signs the user in.
type ResetService struct {
	store     CredentialStore
	hasher    PasswordHasher
	issuer    *Issuer
	validator *ExpiryValidator
	log       *zap.Logger
}

func NewResetService(store CredentialStore, hasher PasswordHasher, issuer *Issuer, validator *ExpiryValidator, log *zap.Logger) *ResetService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResetService{store: store, hasher: hasher, issuer: issuer, validator: validator, log: log}
}

// Execute replaces the password of the user holding recoveryToken and
// returns callback?code=<code>. The recovery token is single use and
// rejected once its window has passed.
func (s *ResetService) Execute(ctx context.Context, recoveryToken, newPassword, callback string) (string, error) {
	if callback == "" {
		return "", InvalidInput("callback is required")
	}
	if err := checkPassword(newPassword); err != nil {
		return "", err
	}
	user, err := lookup(ctx, s.store.GetByPasswordRecoveryToken, recoveryToken, ErrUnauthorized)
	if err != nil {
		return "", err
	}
	if !s.validator.within(user.PasswordRecoveryCreatedAt, user.PasswordRecoveryExpiresIn) {
		return "", ErrUnauthorized
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	auth := s.issuer.Create()
	user.Password = hash
	user.Authentication = &auth
	user.PasswordRecoveryToken = ""
	user.PasswordRecoveryExpiresIn = 0
	user.PasswordRecoveryCreatedAt = time.Time{}
	user.UpdatedAt = auth.CreatedAt

	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return "", fmt.Errorf("store new password: %w", err)
	}

	s.log.Info("password reset", zap.String("username", user.Username))
	return WithQuery(callback, "code", auth.Code), nil
}
