package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophdiary/internal/client/auth"
	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	session  *models.Session
	gotToken string
	signOuts int
}

func (f *fakeGateway) Token(context.Context) (string, error) {
	if f.session == nil {
		return "", client.ErrNotSignedIn
	}
	return f.session.AccessToken, nil
}
func (f *fakeGateway) Session() *models.Session { return f.session }
func (f *fakeGateway) SignIn(context.Context) (*models.Session, error) {
	f.session = &models.Session{AccessToken: "oauth"}
	return f.session, nil
}
func (f *fakeGateway) SignInWithToken(_ context.Context, token string) (*models.Session, error) {
	f.gotToken = token
	f.session = &models.Session{AccessToken: token}
	return f.session, nil
}
func (f *fakeGateway) SignOut(context.Context) error {
	f.signOuts++
	f.session = nil
	return nil
}
func (f *fakeGateway) Subscribe(auth.Listener) func()                   { return func() {} }
func (f *fakeGateway) Restore(context.Context) (*models.Session, error) { return f.session, nil }

func TestAuthService_SignInWithTokenWipesInput(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewAuthService(gw, &fakeClient{})

	token := []byte("secret-token")
	s, err := svc.SignInWithToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", s.AccessToken)
	assert.Equal(t, "secret-token", gw.gotToken)
	assert.Equal(t, make([]byte, len("secret-token")), token)
}

func TestAuthService_Delegates(t *testing.T) {
	gw := &fakeGateway{}
	fc := &fakeClient{PingErr: client.ErrUnavailable}
	svc := NewAuthService(gw, fc)
	ctx := context.Background()

	s, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = svc.SignIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "oauth", svc.Session().AccessToken)

	require.NoError(t, svc.SignOut(ctx))
	assert.Nil(t, svc.Session())
	assert.Equal(t, 1, gw.signOuts)

	require.ErrorIs(t, svc.Ping(ctx), client.ErrUnavailable)
	require.NoError(t, svc.Close(ctx))
}
