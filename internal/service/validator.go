package service

import (
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// ExpiryValidator answers whether a code or token is still usable. Both
// windows are relative to Authentication.CreatedAt: valid iff the
// Authentication is active and now-CreatedAt is strictly below the window.
type ExpiryValidator struct {
	now func() time.Time
}

func NewExpiryValidator() *ExpiryValidator {
	return &ExpiryValidator{now: time.Now}
}

// ValidateCode reports whether auth's code can still be exchanged. A code
// that was already exchanged is rejected.
func (v *ExpiryValidator) ValidateCode(auth *model.Authentication) bool {
	if auth == nil || !auth.IsActive || auth.CodeUsed {
		return false
	}
	return v.within(auth.CreatedAt, auth.CodeExpiresIn)
}

// ValidateTokenData reports whether auth's bearer token is still valid.
func (v *ExpiryValidator) ValidateTokenData(auth *model.Authentication) bool {
	if auth == nil || !auth.IsActive {
		return false
	}
	return v.within(auth.CreatedAt, auth.ExpiresIn)
}

func (v *ExpiryValidator) within(anchor time.Time, window time.Duration) bool {
	return v.now().Sub(anchor) < window
}
