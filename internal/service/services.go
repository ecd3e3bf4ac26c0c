// Package service holds the credential use cases: registration, email
// verification and its resend, login, code exchange, authorization, profile lookup,
// password recovery and logout. Each use case is a small struct wired
// with narrow ports from ports.go.
package service

import (
	"time"

	"go.uber.org/zap"
)

// Options tunes the lifetimes and the clock shared by all services.
type Options struct {
	CodeTTL            time.Duration
	TokenTTL           time.Duration
	RecoveryTTL        time.Duration
	EmailValidationTTL time.Duration
	SingleUseCodes     bool
	// Now overrides the wall clock; tests set it.
	Now func() time.Time
}

// Services bundles every use case for the HTTP layer.
type Services struct {
	Register    *RegisterService
	VerifyEmail *VerifyEmailService
	Resend      *ResendVerificationService
	Login       *LoginService
	Exchange    *ExchangeService
	Authorize   *AuthorizeService
	Profile     *ProfileService
	Recovery    *RecoveryService
	Reset       *ResetService
	Logout      *LogoutService
}

// New wires all services around one store, one issuer and one clock.
func New(store CredentialStore, hasher PasswordHasher, secrets SecretGenerator, verifier VerificationNotifier, recovery RecoveryNotifier, opts Options, log *zap.Logger) *Services {
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	issuer := NewIssuer(secrets, opts.CodeTTL, opts.TokenTTL)
	issuer.now = now
	validator := NewExpiryValidator()
	validator.now = now
	invalidator := NewInvalidator(secrets)
	invalidator.now = now

	log = log.Named("service")
	return &Services{
		Register:    NewRegisterService(store, hasher, issuer, verifier, opts.EmailValidationTTL, log),
		VerifyEmail: NewVerifyEmailService(store, issuer, validator, log),
		Resend:      NewResendVerificationService(store, issuer, verifier, opts.EmailValidationTTL, log),
		Login:       NewLoginService(store, hasher, issuer, log),
		Exchange:    NewExchangeService(store, validator, opts.SingleUseCodes, log),
		Authorize:   NewAuthorizeService(store, validator),
		Profile:     NewProfileService(store, validator),
		Recovery:    NewRecoveryService(store, issuer, recovery, opts.RecoveryTTL, log),
		Reset:       NewResetService(store, hasher, issuer, validator, log),
		Logout:      NewLogoutService(store, invalidator, log),
	}
}
