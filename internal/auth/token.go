package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/diewo77/learnhub/internal/models"
)

const issuer = "learnhub"

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenClaims is the subset of session state embedded in a signed token:
// subject id, email and role, plus the registered expiry fields. Everything
// else (organization, onboarding state) is re-read from the user row when
// the session is materialized.
type TokenClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *TokenClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// TokenIssuer signs and verifies HS256 session tokens. Tokens are stateless;
// there is no revocation list. A deactivated user is caught at the next
// verification because the guard re-checks the user row, not the token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer from the configured signing secret.
// An empty secret is a configuration error: fail at bootstrap, never at
// request time.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth secret is not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for the given user with expiry = now + TTL.
func (t *TokenIssuer) Issue(u *models.User) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature and expiry. The returned error always wraps
// ErrInvalidToken; the wrapped variant (malformed, expired, signature
// mismatch) is for logging only and must not change the response sent to
// the client.
func (t *TokenIssuer) Verify(raw string) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Issuer != issuer || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if !claims.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
