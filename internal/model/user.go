package model

import "time"

// User represents an account record as stored in the `users` table
// together with its single Authentication row. The struct is used by the
// repository and service layers; handlers expose Profile instead so that
// secrets never leave the process.
//
// Fields:
//
//	ID                        – stable identifier assigned at creation.
//	Username                  – unique login name, immutable after creation.
//	Password                  – bcrypt hash of the user's password.
//	Email, Image              – contact and display fields.
//	IsActive                  – false until the email address is verified.
//	EmailValidation*          – one-time token mailed on registration.
//	PasswordRecovery*         – one-time token mailed on recovery request.
//	CreatedAt, UpdatedAt      – row timestamps.
//	Authentication            – the latest issued code/token pair (nil if none).
type User struct {
	ID       string
	Username string
	Password string
	Email    string
	Image    string
	IsActive bool

	EmailValidationToken     string
	EmailValidationExpiresIn time.Duration
	EmailValidationCreatedAt time.Time

	PasswordRecoveryToken     string
	PasswordRecoveryExpiresIn time.Duration
	PasswordRecoveryCreatedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Authentication *Authentication
}

// Authentication pairs a short-lived exchange code with a long-lived bearer
// token. Both windows are measured from the same CreatedAt, so the code is
// simply the first CodeExpiresIn of the token's life.
type Authentication struct {
	Code          string
	CodeExpiresIn time.Duration
	CodeUsed      bool
	Token         string
	ExpiresIn     time.Duration
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy of the user so that callers can mutate the
// result without touching shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Authentication != nil {
		a := *u.Authentication
		cp.Authentication = &a
	}
	return &cp
}

// Recipient is the subset of user data handed to outbound notifiers.
type Recipient struct {
	Username string
	Email    string
	Image    string
}

// Recipient returns the notifier view of the user.
func (u *User) Recipient() Recipient {
	return Recipient{Username: u.Username, Email: u.Email, Image: u.Image}
}

// Profile is the sanitized user returned to clients: no password, no
// authentication, no recovery or validation secrets.
type Profile struct {
	ID        string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile strips every secret from the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Image:     u.Image,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
