package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/logger"
)

// RecoveryService starts a password reset by mailing a one-time recovery
// link. The user's Authentication is left untouched.
type RecoveryService struct {
	store       CredentialStore
	issuer      *Issuer
	notifier    RecoveryNotifier
	recoveryTTL time.Duration
	log         *zap.Logger
}

func NewRecoveryService(store CredentialStore, issuer *Issuer, notifier RecoveryNotifier, recoveryTTL time.Duration, log *zap.Logger) *RecoveryService {
	if recoveryTTL <= 0 {
		recoveryTTL = DefaultRecoveryTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RecoveryService{store: store, issuer: issuer, notifier: notifier, recoveryTTL: recoveryTTL, log: log}
}

func (s *RecoveryService) Execute(ctx context.Context, username, callback string) error {
	user, err := lookup(ctx, s.store.GetByUsername, strings.TrimSpace(username), ErrUserNotFound)
	if err != nil {
		return err
	}

	rec := s.issuer.OneTime(s.recoveryTTL)
	user.PasswordRecoveryToken = rec.Token
	user.PasswordRecoveryExpiresIn = rec.ExpiresIn
	user.PasswordRecoveryCreatedAt = rec.CreatedAt
	user.UpdatedAt = rec.CreatedAt

	if err := s.store.UpdateByUsername(ctx, user.Username, user); err != nil {
		return fmt.Errorf("store recovery token: %w", err)
	}
	if err := s.notifier.SendRecovery(ctx, user.Recipient(), rec.Token, callback); err != nil {
		return fmt.Errorf("send recovery: %w", err)
	}

	s.log.Info("password recovery requested", zap.String("username", user.Username), zap.String("email", logger.MaskEmail(user.Email)))
	return nil
}
