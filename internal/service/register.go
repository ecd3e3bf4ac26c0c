package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/logger"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

func checkPassword(password string) error {
	switch {
	case strings.TrimSpace(password) == "":
		return InvalidInput("password can't be empty")
	case len(password) > maxPasswordBytes:
		return InvalidInput("password is too long")
	}
	return nil
}

// RegisterInput is the submitted user data.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Image    string
}

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" {
		return InvalidInput("username can't be empty")
	}
	if err := checkPassword(in.Password); err != nil {
		return err
	}
	if in.Email == "" {
		return InvalidInput("email can't be empty")
	}
	return nil
}

// RegisterService creates inactive users pending email verification.
type RegisterService struct {
	store         CredentialStore
	hasher        PasswordHasher
	issuer        *Issuer
	notifier      VerificationNotifier
	validationTTL time.Duration
	log           *zap.Logger
}

func NewRegisterService(store CredentialStore, hasher PasswordHasher, issuer *Issuer, notifier VerificationNotifier, validationTTL time.Duration, log *zap.Logger) *RegisterService {
	if validationTTL <= 0 {
		validationTTL = DefaultEmailValidationTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegisterService{store: store, hasher: hasher, issuer: issuer, notifier: notifier, validationTTL: validationTTL, log: log}
}

// Execute persists the new user exactly once and dispatches exactly one
// verification message carrying the email-validation token.
func (s *RegisterService) Execute(ctx context.Context, in RegisterInput, callback string) error {
	if err := in.normalize(); err != nil {
		return err
	}

	_, err := s.store.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return ErrAlreadyRegistered
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	auth := s.issuer.Create()
	validation := s.issuer.OneTime(s.validationTTL)
	user := &model.User{
		ID:                       uuid.NewString(),
		Username:                 in.Username,
		Password:                 hash,
		Email:                    in.Email,
		Image:                    in.Image,
		IsActive:                 false,
		EmailValidationToken:     validation.Token,
		EmailValidationExpiresIn: validation.ExpiresIn,
		EmailValidationCreatedAt: validation.CreatedAt,
		CreatedAt:                auth.CreatedAt,
		UpdatedAt:                auth.CreatedAt,
		Authentication:           &auth,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("create user: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user.Recipient(), validation.Token, callback); err != nil {
		return fmt.Errorf("send verification: %w", err)
	}

	s.log.Info("user registered",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)))
	return nil
}
