// Package gate is the single authorization checkpoint for the platform.
// Both the network-edge middleware and page-render guards call Check so the
// two layers can never diverge in their decisions.
package gate

import (
	"errors"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/models"
)

// Denial reasons returned by Check.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Requirement declares what a route demands of the current session.
// A nil AllowedRoles means any authenticated role is acceptable; role sets
// are exact membership tests with no hierarchy (SUPER_ADMIN does not
// implicitly satisfy a STUDENT-only gate).
type Requirement struct {
	RequireAuth  bool
	AllowedRoles []models.Role
}

// RequireAuth demands any authenticated user.
func RequireAuth() Requirement {
	return Requirement{RequireAuth: true}
}

// RequireRoles demands an authenticated user holding one of the given roles.
func RequireRoles(roles ...models.Role) Requirement {
	return Requirement{RequireAuth: true, AllowedRoles: roles}
}

// Check decides whether the given claims satisfy the requirement. It is a
// pure function: no side effects, identical inputs yield identical
// decisions. All ambiguity fails closed — missing claims or an unknown role
// deny protected resources.
func Check(claims *auth.SessionClaims, req Requirement) error {
	if claims == nil {
		if req.RequireAuth || len(req.AllowedRoles) > 0 {
			return ErrUnauthenticated
		}
		return nil
	}
	if len(req.AllowedRoles) == 0 {
		return nil
	}
	if !claims.Role.Valid() {
		return ErrForbidden
	}
	for _, role := range req.AllowedRoles {
		if claims.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
