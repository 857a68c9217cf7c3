package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the authentication error taxonomy. Handlers map
// these onto HTTP statuses; anything else is a 500 whose detail is logged
// but never sent to the client.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are never distinguished to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is the single outcome surfaced for any token failure.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmailTaken is returned when registration hits the email unique
	// constraint.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInactiveUser indicates the token or session referenced a user that
	// no longer exists or was deactivated.
	ErrInactiveUser = errors.New("invalid or inactive user")
)

// Token failures wrap ErrInvalidToken so callers can treat them uniformly
// while logs keep the distinction between the three failure classes.
var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
)
