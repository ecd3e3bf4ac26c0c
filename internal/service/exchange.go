package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/repository"
)

// TokenGrant is what a code is exchanged for.
type TokenGrant struct {
	Token     string
	CreatedAt time.Time
	ExpiresIn time.Duration
}

// ExchangeService trades a short-lived code for the bearer token already
// bound to the same Authentication.
type ExchangeService struct {
	store     CredentialStore
	validator *ExpiryValidator
	singleUse bool
	log       *zap.Logger
}

// NewExchangeService returns an ExchangeService. With singleUse the code
// is marked consumed after the first successful exchange; without it the
// exchange is read-only and a code can be replayed inside its window.
func NewExchangeService(store CredentialStore, validator *ExpiryValidator, singleUse bool, log *zap.Logger) *ExchangeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExchangeService{store: store, validator: validator, singleUse: singleUse, log: log}
}

func (s *ExchangeService) Execute(ctx context.Context, code string) (TokenGrant, error) {
	user, err := lookup(ctx, s.store.GetByCode, code, ErrUnauthorized)
	if err != nil {
		return TokenGrant{}, err
	}
	auth := user.Authentication
	if !s.validator.ValidateCode(auth) {
		return TokenGrant{}, ErrUnauthorized
	}

	// The consume is the only write: a concurrent exchange loses the race,
	// and a login that replaced the Authentication meanwhile makes the code
	// unknown.
	if s.singleUse {
		if err := s.store.ConsumeCode(ctx, code, s.validator.now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return TokenGrant{}, ErrUnauthorized
			}
			return TokenGrant{}, fmt.Errorf("consume code: %w", err)
		}
	}

	s.log.Debug("code exchanged", zap.String("username", user.Username))
	return TokenGrant{Token: auth.Token, CreatedAt: auth.CreatedAt, ExpiresIn: auth.ExpiresIn}, nil
}
