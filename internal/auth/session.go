package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/learnhub/internal/models"
)

const sessionCookieName = "session"

// SessionClaims is the materialized claim set for one authenticated request.
// It reflects the user row as of token issuance (or re-resolution), not live
// state: a profile change shows up only after the next re-issue.
type SessionClaims struct {
	UserID           uint
	Email            string
	Role             models.Role
	OrganizationID   *uint
	ProfileCompleted bool
	OnboardingStep   int
	ExpiresAt        time.Time
}

// ClaimsFor derives the full session claim set from a user row and the token
// expiry. Federated sign-in always calls this with a freshly loaded row.
func ClaimsFor(u *models.User, expiresAt time.Time) *SessionClaims {
	return &SessionClaims{
		UserID:           u.ID,
		Email:            u.Email,
		Role:             u.Role,
		OrganizationID:   u.OrganizationID,
		ProfileCompleted: u.ProfileCompleted,
		OnboardingStep:   u.OnboardingStep,
		ExpiresAt:        expiresAt,
	}
}

// CreateSession stores the signed token in an HttpOnly cookie so page loads
// carry the same claims as bearer-token API calls.
func CreateSession(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

// TokenFromRequest extracts the raw token, preferring the Authorization
// header over the session cookie. Returns false when neither is present.
func TokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		const prefix = "Bearer "
		if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
			if tok := strings.TrimSpace(header[len(prefix):]); tok != "" {
				return tok, true
			}
		}
		return "", false
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
