// Package identity verifies bearer tokens and carries the authenticated
// principal through request contexts. Account management and credential
// storage live outside this service; tokens are the only identity input.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"veritax.org/internal/faults"
	"veritax.org/internal/models"
)

// Principal is the authenticated actor of a request.
type Principal struct {
	UserID string
	Role   string
}

// IsTaxpayer reports whether the principal may own filings.
func (p Principal) IsTaxpayer() bool {
	return p.Role == models.RoleIndividual || p.Role == models.RoleBusiness
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures Tokens behavior.
type Option func(*Tokens)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

func NewTokens(secret []byte, ttl time.Duration, opts ...Option) *Tokens {
	t := &Tokens{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue signs a token for a user and role.
func (t *Tokens) Issue(userID, role string) (string, error) {
	now := t.now().UTC()
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Verify parses and validates a token, returning the principal it names.
// Any failure reads as faults.ErrUnauthorized.
func (t *Tokens) Verify(tokenString string) (Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: invalid token", faults.ErrUnauthorized)
	}
	if c.Subject == "" || c.Role == "" {
		return Principal{}, fmt.Errorf("%w: token missing subject or role", faults.ErrUnauthorized)
	}
	return Principal{UserID: c.Subject, Role: c.Role}, nil
}

type ctxKey string

const principalKey ctxKey = "identity_principal"

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
