package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("super-secret")

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("user-123", "authenticated", secret, time.Hour)
	require.NoError(t, err)

	claims, err := NewVerifier(secret, "authenticated").Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", "", secret, -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(secret, "").Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	good, err := GenerateToken("u1", "authenticated", secret, time.Hour)
	require.NoError(t, err)

	noSub, err := GenerateToken("", "", secret, time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(secret)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *Verifier
		token    string
	}{
		{"wrong secret", NewVerifier([]byte("other"), ""), good},
		{"wrong audience", NewVerifier(secret, "service_role"), good},
		{"missing subject", NewVerifier(secret, ""), noSub},
		{"missing expiry", NewVerifier(secret, ""), noExp},
		{"alg none", NewVerifier(secret, ""), none},
		{"garbage", NewVerifier(secret, ""), "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}
