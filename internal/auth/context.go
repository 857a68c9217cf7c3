package auth

import "context"

type ctxKey string

const claimsCtxKey = ctxKey("sessionClaims")

// WithClaims stores the materialized session claims in the request context.
// Claims travel only through context; there is no ambient session state.
func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the session claims. A nil result means the
// request is anonymous, which downstream gates treat as "no claims", not as
// an error.
func ClaimsFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(claimsCtxKey).(*SessionClaims)
	return claims
}
