package service

import (
	"context"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// CredentialStore is the keyed record store. Lookups that find nothing
// return an error matching repository.ErrNotFound.
type CredentialStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	GetByCode(ctx context.Context, code string) (*model.User, error)
	GetByPasswordRecoveryToken(ctx context.Context, token string) (*model.User, error)
	GetByEmailValidationToken(ctx context.Context, token string) (*model.User, error)
	UpdateByUsername(ctx context.Context, username string, user *model.User) error
	// ConsumeCode atomically marks an unused code as used. It returns
	// repository.ErrNotFound when the code is unknown or already used.
	ConsumeCode(ctx context.Context, code string, at time.Time) error
}

// PasswordHasher hashes and compares passwords. Compare must be timing safe.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) bool
}

// SecretGenerator produces random identifiers for codes and tokens.
type SecretGenerator interface {
	NewSecret() string
}

// VerificationNotifier delivers the email-validation link.
type VerificationNotifier interface {
	SendVerification(ctx context.Context, to model.Recipient, token, callback string) error
}

// RecoveryNotifier delivers the password-recovery link.
type RecoveryNotifier interface {
	SendRecovery(ctx context.Context, to model.Recipient, token, callback string) error
}
