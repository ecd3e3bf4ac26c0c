// Package repository defines the credential store backends and the error
// values they share. Higher layers match these with errors.Is to tell a
// missing record from a storage failure.
package repository

import "errors"

// ErrNotFound is returned when no user matches the lookup key.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict is returned when an insert would violate a unique key, for
// example a second user with the same username.
var ErrConflict = errors.New("repository: conflict")
