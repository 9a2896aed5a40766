package netx

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackServer_ReceivesQuery(t *testing.T) {
	s, err := ListenCallback("127.0.0.1:0", "/callback")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.RedirectURL(), "http://127.0.0.1:"))

	go func() {
		time.Sleep(50 * time.Millisecond)
		resp, err := http.Get(s.RedirectURL() + "?code=abc&state=xyz")
		if err == nil {
			_ = resp.Body.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", q.Get("code"))
	assert.Equal(t, "xyz", q.Get("state"))
}

func TestCallbackServer_ContextCancelled(t *testing.T) {
	s, err := ListenCallback("127.0.0.1:0", "/callback")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = s.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
