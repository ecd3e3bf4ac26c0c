package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// VerifyEmailService activates a user from its email-validation token and
// issues the first usable Authentication.
type VerifyEmailService struct {
	store     CredentialStore
	issuer    *Issuer
	validator *ExpiryValidator
	log       *zap.Logger
}

func NewVerifyEmailService(store CredentialStore, issuer *Issuer, validator *ExpiryValidator, log *zap.Logger) *VerifyEmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VerifyEmailService{store: store, issuer: issuer, validator: validator, log: log}
}

// Execute returns callback?code=<code>. The validation token is cleared on
// use, so a second call with the same token fails with ErrUnauthorized.
func (s *VerifyEmailService) Execute(ctx context.Context, token, callback string) (string, error) {
	if callback == "" {
		return "", InvalidInput("callback is required")
	}
	user, err := lookup(ctx, s.store.GetByEmailValidationToken, token, ErrUnauthorized)
	if err != nil {
		return "", err
	}
	if user.IsActive {
		return "", ErrUnauthorized
	}
	if user.EmailValidationExpiresIn > 0 && !s.validator.within(user.EmailValidationCreatedAt, user.EmailValidationExpiresIn) {
		return "", ErrUnauthorized
	}

	auth := s.issuer.Create()
	user.Authentication = &auth
	user.IsActive = true
	user.EmailValidationToken = ""
	user.EmailValidationExpiresIn = 0
	user.UpdatedAt = auth.CreatedAt

	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return "", fmt.Errorf("activate user: %w", err)
	}

	s.log.Info("email verified", zap.String("username", user.Username))
	return WithQuery(callback, "code", auth.Code), nil
}
