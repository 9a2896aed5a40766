// Package common contains shared constants and sentinel errors used across
// GophDiary components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates client requests with server log lines.
const RequestIDHeaderName = "X-Request-ID"
