package service

import (
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

const (
	// DefaultCodeTTL is how long an issued code can be exchanged.
	DefaultCodeTTL = 30 * time.Second
	// DefaultTokenTTL is how long an issued bearer token stays valid.
	DefaultTokenTTL = 3 * 24 * time.Hour
	// DefaultRecoveryTTL bounds a password-recovery token.
	DefaultRecoveryTTL = 5 * time.Minute
	// DefaultEmailValidationTTL bounds an email-validation token.
	DefaultEmailValidationTTL = 24 * time.Hour
)

// OneTimeToken is a random secret with its own validity window, used for
// email validation and password recovery.
type OneTimeToken struct {
	Token     string
	ExpiresIn time.Duration
	CreatedAt time.Time
}

// Issuer builds fresh Authentications and one-time tokens.
type Issuer struct {
	secrets  SecretGenerator
	now      func() time.Time
	codeTTL  time.Duration
	tokenTTL time.Duration
}

// NewIssuer returns an Issuer. Non-positive windows fall back to the defaults.
func NewIssuer(secrets SecretGenerator, codeTTL, tokenTTL time.Duration) *Issuer {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Issuer{secrets: secrets, now: time.Now, codeTTL: codeTTL, tokenTTL: tokenTTL}
}

// Create issues a new active Authentication with independent code and token.
func (i *Issuer) Create() model.Authentication {
	now := i.now().UTC()
	return model.Authentication{
		Code:          i.secrets.NewSecret(),
		CodeExpiresIn: i.codeTTL,
		Token:         i.secrets.NewSecret(),
		ExpiresIn:     i.tokenTTL,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// OneTime generates a one-time token valid for ttl.
func (i *Issuer) OneTime(ttl time.Duration) OneTimeToken {
	return OneTimeToken{Token: i.secrets.NewSecret(), ExpiresIn: ttl, CreatedAt: i.now().UTC()}
}

// Invalidator retires an Authentication on logout: it is flagged inactive
// and its code and token are replaced with fresh values nobody holds.
type Invalidator struct {
	secrets SecretGenerator
	now     func() time.Time
}

func NewInvalidator(secrets SecretGenerator) *Invalidator {
	return &Invalidator{secrets: secrets, now: time.Now}
}

func (v *Invalidator) Invalidate(auth model.Authentication) model.Authentication {
	auth.IsActive = false
	auth.Code = v.secrets.NewSecret()
	auth.Token = v.secrets.NewSecret()
	auth.UpdatedAt = v.now().UTC()
	return auth
}
