package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/model"
)

// ProfileService returns the sanitized user behind a valid token.
type ProfileService struct {
	store     CredentialStore
	validator *ExpiryValidator
}

func NewProfileService(store CredentialStore, validator *ExpiryValidator) *ProfileService {
	return &ProfileService{store: store, validator: validator}
}

func (s *ProfileService) Execute(ctx context.Context, token string) (model.Profile, error) {
	user, err := authorizedUser(ctx, s.store, s.validator, token)
	if err != nil {
		return model.Profile{}, err
	}
	return user.Profile(), nil
}
