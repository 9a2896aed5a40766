package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	jwt       bool
	subject   string
	email     string
	expiresAt time.Time
}

// readClaims decodes the claims of a JWT access token without verifying its
// signature. The client never trusts them; they only fill in expiry and user
// details for display and refresh timing.
func readClaims(token string) tokenClaims {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return tokenClaims{}
	}

	c := tokenClaims{jwt: true}
	c.subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.expiresAt = exp.Time.UTC()
	}
	if email, ok := mc["email"].(string); ok {
		c.email = email
	}
	return c
}
