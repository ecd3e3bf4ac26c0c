package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/model"
)

// AuthorizeService guards protected operations by validating a bearer token.
type AuthorizeService struct {
	store     CredentialStore
	validator *ExpiryValidator
}

func NewAuthorizeService(store CredentialStore, validator *ExpiryValidator) *AuthorizeService {
	return &AuthorizeService{store: store, validator: validator}
}

// Execute returns nil when token belongs to a live Authentication.
func (s *AuthorizeService) Execute(ctx context.Context, token string) error {
	_, err := authorizedUser(ctx, s.store, s.validator, token)
	return err
}

func authorizedUser(ctx context.Context, store CredentialStore, validator *ExpiryValidator, token string) (*model.User, error) {
	user, err := lookup(ctx, store.GetByToken, token, ErrUnauthorized)
	if err != nil {
		return nil, err
	}
	if user.Authentication == nil || !validator.ValidateTokenData(user.Authentication) {
		return nil, ErrUnauthorized
	}
	return user, nil
}
