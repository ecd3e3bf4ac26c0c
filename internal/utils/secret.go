package utils

import "github.com/google/uuid"

// NewSecret returns a random UUIDv4 string used for codes, bearer tokens
// and one-time email tokens.
func NewSecret() string {
	return uuid.NewString()
}

// UUIDGenerator adapts NewSecret to the service's SecretGenerator port.
type UUIDGenerator struct{}

func (UUIDGenerator) NewSecret() string { return NewSecret() }
