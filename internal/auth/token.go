// Package auth issues and verifies the HS256 bearer tokens carried by API
// callers. A verified token yields a domain.Principal; mapping that principal
// onto a client or personnel record is the identity package's job.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// Claims is the JWT payload. Subject holds the account email.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret for HS256 and ttl as token lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for p and its expiry.
func (t *Tokens) Issue(p domain.Principal) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.Tokens.Issue: %w", err)
	}
	return signed, exp, nil
}

// Verify parses raw and returns the principal it carries. Any failure,
// including expiry, an unknown role, or a foreign signing method, is reported
// as domain.ErrUnauthorized.
func (t *Tokens) Verify(raw string) (domain.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, fmt.Errorf("auth.Tokens.Verify: %w: token expired", domain.ErrUnauthorized)
		}
		return domain.Principal{}, fmt.Errorf("auth.Tokens.Verify: %w: %v", domain.ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("auth.Tokens.Verify: %w: missing subject", domain.ErrUnauthorized)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("auth.Tokens.Verify: %w: %v", domain.ErrUnauthorized, err)
	}
	return domain.Principal{Email: claims.Subject, Role: role}, nil
}
