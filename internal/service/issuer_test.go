package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssuer_Create(t *testing.T) {
	i := NewIssuer(&seqSecrets{}, 0, 0)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))
	i.now = func() time.Time { return fixed }

	a := i.Create()
	assert.True(t, a.IsActive)
	assert.False(t, a.CodeUsed)
	assert.NotEqual(t, a.Code, a.Token)
	assert.Equal(t, DefaultCodeTTL, a.CodeExpiresIn)
	assert.Equal(t, DefaultTokenTTL, a.ExpiresIn)
	assert.Equal(t, fixed.UTC(), a.CreatedAt)
	assert.Equal(t, time.UTC, a.CreatedAt.Location())

	b := i.Create()
	assert.NotEqual(t, a.Code, b.Code)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestIssuer_CustomWindows(t *testing.T) {
	i := NewIssuer(&seqSecrets{}, time.Minute, 2*time.Hour)
	a := i.Create()
	assert.Equal(t, time.Minute, a.CodeExpiresIn)
	assert.Equal(t, 2*time.Hour, a.ExpiresIn)

	ot := i.OneTime(5 * time.Minute)
	assert.NotEmpty(t, ot.Token)
	assert.Equal(t, 5*time.Minute, ot.ExpiresIn)
}

func TestInvalidator(t *testing.T) {
	issuer := NewIssuer(&seqSecrets{}, 0, 0)
	a := issuer.Create()

	inv := NewInvalidator(&seqSecrets{n: 100})
	out := inv.Invalidate(a)
	assert.False(t, out.IsActive)
	assert.NotEqual(t, a.Code, out.Code)
	assert.NotEqual(t, a.Token, out.Token)
	assert.Equal(t, a.CreatedAt, out.CreatedAt)
	assert.True(t, a.IsActive, "input must not be mutated")
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "https://x/cb?code=abc", WithQuery("https://x/cb", "code", "abc"))
	assert.Equal(t, "https://x/cb?a=1&code=abc", WithQuery("https://x/cb?a=1", "code", "abc"))
	assert.Equal(t, "/e?message=user+not+found", WithQuery("/e", "message", "user not found"))
}
