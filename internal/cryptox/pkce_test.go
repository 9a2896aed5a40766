package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeVerifier(t *testing.T) {
	v, err := NewCodeVerifier()
	require.NoError(t, err)
	assert.Len(t, v, 43)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), v)

	w, err := NewCodeVerifier()
	require.NoError(t, err)
	assert.NotEqual(t, v, w)
}

func TestCodeChallenge_RFC7636Vector(t *testing.T) {
	// Appendix B of RFC 7636.
	got := CodeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gX-Be7BNE")
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", got)
}
