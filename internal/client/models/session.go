package models

import "time"

// Session is an authenticated user session issued by the auth server.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
}

// expirySkew treats tokens about to expire as already expired.
const expirySkew = 30 * time.Second

// Expired reports whether the access token is expired at now. A zero
// ExpiresAt means the expiry is unknown and the token is assumed valid.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(expirySkew).Before(s.ExpiresAt)
}
