package service

import "errors"

// Kind tags a DomainError so the HTTP boundary can map it to a response.
type Kind string

const (
	KindAlreadyRegistered  Kind = "already_registered"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidUser        Kind = "invalid_user"
	KindUnauthorized       Kind = "unauthorized"
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
)

// DomainError is an expected failure carrying a client-safe message.
// Two DomainErrors match under errors.Is when their kinds are equal.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

var (
	ErrAlreadyRegistered  = &DomainError{Kind: KindAlreadyRegistered, Message: "user already registered"}
	ErrInvalidCredentials = &DomainError{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrInvalidUser        = &DomainError{Kind: KindInvalidUser, Message: "user is not active"}
	ErrUnauthorized       = &DomainError{Kind: KindUnauthorized, Message: "unauthorized user"}
	ErrUserNotFound       = &DomainError{Kind: KindNotFound, Message: "user not found"}
	ErrInvalidInput       = &DomainError{Kind: KindInvalidInput, Message: "invalid input"}
)

// InvalidInput builds an InvalidInput error with a specific message.
func InvalidInput(msg string) error {
	return &DomainError{Kind: KindInvalidInput, Message: msg}
}

// AsDomainError unwraps err to a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
