package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/cryptox"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/netx"
)

// Listener is called with the new session, or nil after sign-out.
type Listener func(ctx context.Context, s *models.Session)

// Gateway is the Session/Auth Gateway.
//
// Contract:
//   - Session: the current session or nil.
//   - SignIn: interactive OAuth sign-in through the configured provider.
//   - SignInWithToken: adopt an access token obtained elsewhere.
//   - SignOut: revoke (best effort) and forget the session.
//   - Subscribe: register a Listener; the returned func unsubscribes.
//   - Restore: load the persisted session at start-up.
//   - Token: a non-expired access token, refreshing when needed; fails with
//     client.ErrNotSignedIn when there is no usable session.
type Gateway interface {
	client.TokenSource

	Session() *models.Session
	SignIn(ctx context.Context) (*models.Session, error)
	SignInWithToken(ctx context.Context, token string) (*models.Session, error)
	SignOut(ctx context.Context) error
	Subscribe(fn Listener) (unsubscribe func())
	Restore(ctx context.Context) (*models.Session, error)
}

// Options configures the gateway.
type Options struct {
	// AuthURL is the base URL of the GoTrue-compatible auth server.
	AuthURL string
	// APIKey is sent in the apikey header when set.
	APIKey string
	// Provider is the external OAuth provider, e.g. "github".
	Provider string
	// CallbackAddr is the loopback address for the OAuth redirect.
	CallbackAddr string
	// Timeout bounds each call to the auth server.
	Timeout time.Duration
	// SignInTimeout bounds the wait for the browser redirect.
	SignInTimeout time.Duration
	// OnAuthorizeURL shows the URL the user must open.
	OnAuthorizeURL func(authorizeURL string)
}

const callbackPathPrefix = "/auth/callback/"

type subscriber struct {
	id int
	fn Listener
}

type gateway struct {
	opts   Options
	api    *goTrue
	store  SessionStore
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	session *models.Session
	subs    []subscriber
	nextID  int
}

// NewGateway returns a Gateway talking to opts.AuthURL and persisting the
// session in store.
func NewGateway(opts Options, store SessionStore, logger logging.Logger) Gateway {
	if opts.Provider == "" {
		opts.Provider = "github"
	}
	if opts.CallbackAddr == "" {
		opts.CallbackAddr = "127.0.0.1:0"
	}
	if opts.SignInTimeout <= 0 {
		opts.SignInTimeout = 5 * time.Minute
	}
	if opts.OnAuthorizeURL == nil {
		opts.OnAuthorizeURL = func(u string) {
			logger.Info(context.Background(), "open this URL to sign in", "url", u)
		}
	}

	return &gateway{
		opts:   opts,
		api:    newGoTrue(opts.AuthURL, opts.APIKey, opts.Timeout),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (g *gateway) Session() *models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

func (g *gateway) Subscribe(fn Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID
	g.subs = append(g.subs, subscriber{id: id, fn: fn})

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

func (g *gateway) notify(ctx context.Context, s *models.Session) {
	g.mu.Lock()
	subs := make([]subscriber, len(g.subs))
	copy(subs, g.subs)
	g.mu.Unlock()

	for _, sub := range subs {
		var cp *models.Session
		if s != nil {
			v := *s
			cp = &v
		}
		sub.fn(ctx, cp)
	}
}

// setSession makes s current, persists it and notifies subscribers.
func (g *gateway) setSession(ctx context.Context, s *models.Session) error {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()

	var err error
	if s == nil {
		err = g.store.Clear(ctx)
	} else {
		err = g.store.Save(ctx, s)
	}
	if err != nil {
		g.logger.Error(ctx, "persisting session failed", "error", err)
	}

	g.notify(ctx, s)
	return err
}

func (g *gateway) SignIn(ctx context.Context) (*models.Session, error) {
	verifier, err := cryptox.NewCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	cb, err := netx.ListenCallback(g.opts.CallbackAddr, callbackPathPrefix+suffix)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	q := url.Values{}
	q.Set("provider", g.opts.Provider)
	q.Set("redirect_to", cb.RedirectURL())
	q.Set("code_challenge", cryptox.CodeChallenge(verifier))
	q.Set("code_challenge_method", cryptox.MethodS256)
	g.opts.OnAuthorizeURL(strings.TrimRight(g.opts.AuthURL, "/") + "/auth/v1/authorize?" + q.Encode())

	waitCtx, cancel := context.WithTimeout(ctx, g.opts.SignInTimeout)
	defer cancel()

	params, err := cb.Wait(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("sign in: waiting for redirect: %w", err)
	}

	if e := params.Get("error"); e != "" {
		desc := params.Get("error_description")
		if desc == "" {
			desc = e
		}
		return nil, fmt.Errorf("sign in: %w: %s", client.ErrUnauthorized, desc)
	}

	code := params.Get("code")
	if code == "" {
		return nil, fmt.Errorf("sign in: %w: redirect carried no code", client.ErrUnauthorized)
	}

	tr, err := g.api.exchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s := tr.session(g.now())
	_ = g.setSession(ctx, s)
	g.logger.Info(ctx, "signed in", "user_id", s.UserID)
	return g.Session(), nil
}

func (g *gateway) SignInWithToken(ctx context.Context, token string) (*models.Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), common.BearerPrefix))
	if token == "" {
		return nil, fmt.Errorf("sign in: %w", common.ErrInvalidToken)
	}

	s := &models.Session{AccessToken: token}
	if c := readClaims(token); c.jwt {
		s.UserID = c.subject
		s.Email = c.email
		s.ExpiresAt = c.expiresAt
	}
	if s.Expired(g.now()) {
		return nil, fmt.Errorf("sign in: %w", common.ErrTokenExpired)
	}

	_ = g.setSession(ctx, s)
	g.logger.Info(ctx, "signed in with token", "user_id", s.UserID)
	return g.Session(), nil
}

func (g *gateway) SignOut(ctx context.Context) error {
	s := g.Session()
	if s == nil {
		return nil
	}

	if err := g.api.logout(ctx, s.AccessToken); err != nil {
		g.logger.Warn(ctx, "remote sign out failed", "error", err)
	}

	if err := g.setSession(ctx, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	g.logger.Info(ctx, "signed out")
	return nil
}

func (g *gateway) Restore(ctx context.Context) (*models.Session, error) {
	s, err := g.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	if s.Expired(g.now()) {
		g.mu.Lock()
		g.session = s
		g.mu.Unlock()

		if _, err := g.refresh(ctx, s); err != nil {
			if errors.Is(err, client.ErrNotSignedIn) {
				return nil, nil
			}
			// keep the stale session; Token retries the refresh later
			g.logger.Warn(ctx, "session refresh failed", "error", err)
			g.notify(ctx, s)
			return g.Session(), nil
		}
		return g.Session(), nil
	}

	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
	g.notify(ctx, s)
	return g.Session(), nil
}

func (g *gateway) Token(ctx context.Context) (string, error) {
	s := g.Session()
	if s == nil {
		return "", client.ErrNotSignedIn
	}
	if !s.Expired(g.now()) {
		return s.AccessToken, nil
	}

	ns, err := g.refresh(ctx, s)
	if err != nil {
		return "", err
	}
	return ns.AccessToken, nil
}

// refresh exchanges the refresh token of s for a new session. A session that
// cannot be refreshed is dropped and client.ErrNotSignedIn returned.
func (g *gateway) refresh(ctx context.Context, s *models.Session) (*models.Session, error) {
	if s.RefreshToken == "" {
		_ = g.setSession(ctx, nil)
		return nil, fmt.Errorf("%w: session expired", client.ErrNotSignedIn)
	}

	tr, err := g.api.refresh(ctx, s.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = g.setSession(ctx, nil)
			return nil, fmt.Errorf("%w: %v", client.ErrNotSignedIn, err)
		}
		return nil, err
	}

	ns := tr.session(g.now())
	if ns.RefreshToken == "" {
		ns.RefreshToken = s.RefreshToken
	}
	if ns.Email == "" {
		ns.Email = s.Email
	}
	_ = g.setSession(ctx, ns)
	g.logger.Debug(ctx, "session refreshed", "user_id", ns.UserID)
	return ns, nil
}
