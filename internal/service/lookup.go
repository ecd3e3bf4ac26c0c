package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

type lookupFunc func(ctx context.Context, key string) (*model.User, error)

// lookup runs a store query and turns "not found" into missing. Any other
// store failure is returned wrapped.
func lookup(ctx context.Context, fn lookupFunc, key string, missing error) (*model.User, error) {
	if key == "" {
		return nil, missing
	}
	user, err := fn(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, missing
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
