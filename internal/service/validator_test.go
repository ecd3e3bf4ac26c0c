package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/auth-service/internal/model"
)

func TestExpiryValidator(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	auth := &model.Authentication{
		Code: "c", CodeExpiresIn: 30 * time.Second,
		Token: "t", ExpiresIn: time.Hour,
		IsActive: true, CreatedAt: created,
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		mutate  func(a *model.Authentication)
		code    bool
		token   bool
	}{
		{name: "fresh", elapsed: 0, code: true, token: true},
		{name: "just before code window", elapsed: 30*time.Second - time.Millisecond, code: true, token: true},
		{name: "code window boundary", elapsed: 30 * time.Second, code: false, token: true},
		{name: "token window boundary", elapsed: time.Hour, code: false, token: false},
		{name: "inactive", elapsed: 0, mutate: func(a *model.Authentication) { a.IsActive = false }, code: false, token: false},
		{name: "code consumed", elapsed: 0, mutate: func(a *model.Authentication) { a.CodeUsed = true }, code: false, token: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := *auth
			if tt.mutate != nil {
				tt.mutate(&a)
			}
			v := &ExpiryValidator{now: func() time.Time { return created.Add(tt.elapsed) }}
			assert.Equal(t, tt.code, v.ValidateCode(&a))
			assert.Equal(t, tt.token, v.ValidateTokenData(&a))
		})
	}
}

func TestExpiryValidator_Nil(t *testing.T) {
	v := NewExpiryValidator()
	assert.False(t, v.ValidateCode(nil))
	assert.False(t, v.ValidateTokenData(nil))
}
