package services

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/client/auth"
	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/common"
)

// AuthService defines the session operations the terminal UI needs.
//
// Contract:
//   - Restore: load the persisted session at start-up.
//   - SignIn / SignInWithToken / SignOut: session lifecycle via the gateway.
//   - Session: the current session or nil.
//   - Subscribe: session change notifications.
//   - Ping: liveness of the Remote Entry Store.
//   - Close: release the underlying client.
type AuthService interface {
	Restore(ctx context.Context) (*models.Session, error)
	SignIn(ctx context.Context) (*models.Session, error)
	SignInWithToken(ctx context.Context, token []byte) (*models.Session, error)
	SignOut(ctx context.Context) error
	Session() *models.Session
	Subscribe(fn auth.Listener) (unsubscribe func())
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	gateway auth.Gateway
	client  client.Client
}

func NewAuthService(gateway auth.Gateway, c client.Client) AuthService {
	return &authService{gateway: gateway, client: c}
}

func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	return a.gateway.Restore(ctx)
}

func (a *authService) SignIn(ctx context.Context) (*models.Session, error) {
	return a.gateway.SignIn(ctx)
}

// SignInWithToken wipes token once the gateway has taken its copy.
func (a *authService) SignInWithToken(ctx context.Context, token []byte) (*models.Session, error) {
	defer common.WipeByteArray(token)
	return a.gateway.SignInWithToken(ctx, string(token))
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.gateway.SignOut(ctx)
}

func (a *authService) Session() *models.Session {
	return a.gateway.Session()
}

func (a *authService) Subscribe(fn auth.Listener) func() {
	return a.gateway.Subscribe(fn)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
