package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims of a bearer token, decoded without signature verification.
type Claims struct {
	Subject   string
	Username  string // the Username claim when present, otherwise Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes a JWT bearer token's claims for display. The signature is not checked;
// the server remains the only authority on validity.
func ParseClaims(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	c := &Claims{}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if mc, ok := parsed.Claims.(jwt.MapClaims); ok {
		if name, ok := mc["Username"].(string); ok {
			c.Username = name
		}
	}
	if c.Subject == "" {
		c.Subject = c.Username
	}
	if c.Username == "" {
		c.Username = c.Subject
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
