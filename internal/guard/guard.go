// Package guard applies the authorization gate at the HTTP boundary.
// API middleware answers denials with JSON statuses; page middleware answers
// with redirects. Both consult gate.Check, never their own role logic.
package guard

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/gate"
	"github.com/diewo77/learnhub/internal/httpx"
	"github.com/diewo77/learnhub/internal/models"
	"github.com/diewo77/learnhub/internal/obs"
)

// UserLoader fetches a user by id so the guard can confirm the subject of a
// valid token still exists and is active. Returning (nil, nil) means the
// user is gone or deactivated.
type UserLoader func(ctx context.Context, userID uint) (*models.User, error)

// Guard resolves sessions and enforces route requirements.
type Guard struct {
	tokens   *auth.TokenIssuer
	loadUser UserLoader
}

func New(tokens *auth.TokenIssuer, loadUser UserLoader) *Guard {
	return &Guard{tokens: tokens, loadUser: loadUser}
}

// Middleware resolves the current session once per request, bearer token
// first, then the session cookie. Valid claims are stored in the request
// context; any failure leaves the request anonymous. Per-route middleware
// decides whether anonymous is acceptable.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := g.resolve(r); claims != nil {
			r = r.WithContext(auth.WithClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve turns a raw token into materialized session claims, or nil.
func (g *Guard) resolve(r *http.Request) *auth.SessionClaims {
	raw, ok := auth.TokenFromRequest(r)
	if !ok {
		return nil
	}
	claims, err := g.tokens.Verify(raw)
	if err != nil {
		obs.Log("auth.token.rejected", map[string]any{"reason": tokenFailureReason(err)})
		obs.CountAuthFailure(tokenFailureReason(err))
		return nil
	}
	uid, err := claims.UserID()
	if err != nil {
		obs.CountAuthFailure("malformed")
		return nil
	}
	user, err := g.loadUser(r.Context(), uid)
	if err != nil || user == nil || !user.IsActive {
		obs.CountAuthFailure("inactive")
		return nil
	}
	return auth.ClaimsFor(user, claims.ExpiresAt.Time)
}

// API enforces a requirement for JSON endpoints: 401 when unauthenticated,
// 403 when the role set does not match.
func (g *Guard) API(req gate.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch err := gate.Check(auth.ClaimsFromContext(r.Context()), req); {
			case errors.Is(err, gate.ErrUnauthenticated):
				httpx.JSONError(w, http.StatusUnauthorized, "Authentication required", nil)
			case errors.Is(err, gate.ErrForbidden):
				httpx.JSONError(w, http.StatusForbidden, "Insufficient permissions", nil)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Page enforces a requirement for rendered pages: anonymous users go to the
// sign-in page, wrong-role users go to the generic dashboard (never back to
// sign-in; they are authenticated).
func (g *Guard) Page(req gate.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch err := gate.Check(auth.ClaimsFromContext(r.Context()), req); {
			case errors.Is(err, gate.ErrUnauthenticated):
				http.Redirect(w, r, gate.SignInPath, http.StatusSeeOther)
			case errors.Is(err, gate.ErrForbidden):
				http.Redirect(w, r, gate.DashboardPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RedirectAuthenticated bounces signed-in users away from auth pages to
// their role's dashboard. Anonymous users pass through.
func (g *Guard) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
			http.Redirect(w, r, gate.Landing(claims.Role), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignature):
		return "signature"
	default:
		return "malformed"
	}
}
