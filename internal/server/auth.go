package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the hosted API's seven day tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenClaims are the claims carried by an issued bearer token.
type TokenClaims struct {
	Username string `json:"Username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. A non-positive ttl uses [DefaultTokenTTL].
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user. The subject is the user ID so the token survives a rename.
func (t *TokenIssuer) Issue(user models.User) (string, error) {
	now := t.now()
	claims := TokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks the signature and expiry and returns the token's subject (a user ID).
func (t *TokenIssuer) Verify(token string) (string, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", shared.ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", shared.ErrInvalidToken
	}
	return claims.Subject, nil
}
