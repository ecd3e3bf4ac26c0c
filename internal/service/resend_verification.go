package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/logger"
)

// ResendVerificationService mails a fresh email-validation link to a user
// that has not verified yet, for example when the first message was lost.
type ResendVerificationService struct {
	store         CredentialStore
	issuer        *Issuer
	notifier      VerificationNotifier
	validationTTL time.Duration
	log           *zap.Logger
}

func NewResendVerificationService(store CredentialStore, issuer *Issuer, notifier VerificationNotifier, validationTTL time.Duration, log *zap.Logger) *ResendVerificationService {
	if validationTTL <= 0 {
		validationTTL = DefaultEmailValidationTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendVerificationService{store: store, issuer: issuer, notifier: notifier, validationTTL: validationTTL, log: log}
}

// Execute replaces the pending validation token, so only the newest link
// works. Active users get AlreadyRegistered.
func (s *ResendVerificationService) Execute(ctx context.Context, username, callback string) error {
	user, err := lookup(ctx, s.store.GetByUsername, strings.TrimSpace(username), ErrUserNotFound)
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrAlreadyRegistered
	}

	validation := s.issuer.OneTime(s.validationTTL)
	user.EmailValidationToken = validation.Token
	user.EmailValidationExpiresIn = validation.ExpiresIn
	user.EmailValidationCreatedAt = validation.CreatedAt
	user.UpdatedAt = validation.CreatedAt

	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return fmt.Errorf("store validation token: %w", err)
	}
	if err := s.notifier.SendVerification(ctx, user.Recipient(), validation.Token, callback); err != nil {
		return fmt.Errorf("send verification: %w", err)
	}

	s.log.Info("verification resent", zap.String("username", user.Username), zap.String("email", logger.MaskEmail(user.Email)))
	return nil
}
