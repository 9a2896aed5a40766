package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/client/auth"
	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/config"
	"github.com/dmitrijs2005/gophdiary/internal/client/importsrc"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdiary/internal/client/services"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// SourceReader loads the text of an import file.
type SourceReader interface {
	Read(ctx context.Context, src string) (string, error)
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	authService  services.AuthService
	entryService services.EntryService
	prefs        services.PreferenceService
	sources      SourceReader
	reader       *bufio.Reader

	mu          sync.Mutex
	mode        Mode
	theme       models.Theme
	session     *models.Session
	unsubscribe func()
}

// NewApp wires the local store, the auth gateway, the API client and the
// services described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	path, err := c.LocalStorePath()
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	metadataRepo := metadata.NewSQLiteRepository(db)

	gateway := auth.NewGateway(auth.Options{
		AuthURL:      c.AuthURL,
		APIKey:       c.AuthAPIKey,
		Provider:     c.OAuthProvider,
		CallbackAddr: c.CallbackAddr,
		Timeout:      c.RequestTimeout,
		OnAuthorizeURL: func(u string) {
			printlnFn("Open this URL in your browser to sign in:")
			printlnFn("  " + u)
		},
	}, auth.NewMetadataStore(metadataRepo), logger)

	apiClient := client.NewRESTClient(c.APIURL, gateway, c.RequestTimeout, logger)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		authService:  services.NewAuthService(gateway, apiClient),
		entryService: services.NewEntryService(apiClient, entries.NewMemoryRepository(), logger),
		prefs:        services.NewPreferenceService(db),
		sources:      newSourceReader(c),
		reader:       bufio.NewReader(os.Stdin),
		theme:        models.DefaultTheme,
	}, nil
}

func newSourceReader(c *config.Config) *importsrc.Reader {
	return importsrc.NewReader(importsrc.S3Options{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}, 0)
}

// Start loads preferences, restores the persisted session and subscribes to
// later session changes.
func (a *App) Start(ctx context.Context) error {
	if th, err := a.prefs.Theme(ctx); err != nil {
		a.logger.Warn(ctx, "loading theme failed", "error", err)
	} else {
		a.setTheme(th)
	}

	s, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "restoring session failed", "error", err)
	}
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	a.unsubscribe = a.authService.Subscribe(a.onSessionChange)
	return nil
}

// Close releases everything NewApp acquired.
func (a *App) Close(ctx context.Context) error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing api client failed", "error", err)
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.Close(ctx)
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}

// onSessionChange keeps the entry cache in step with the session: a new
// user gets a fresh list, sign-out drops it. Token refreshes for the same
// user change nothing.
func (a *App) onSessionChange(ctx context.Context, s *models.Session) {
	a.mu.Lock()
	prev := a.session
	a.session = s
	a.mu.Unlock()

	switch {
	case s == nil:
		a.entryService.Clear()
	case prev == nil || prev.UserID != s.UserID:
		if _, err := a.entryService.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "loading entries failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) currentSession() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if !changed {
		return
	}
	if mode == ModeOffline {
		a.logger.Warn(context.Background(), "entry server unreachable, switched to offline mode")
	} else {
		a.logger.Info(context.Background(), "switched to online mode")
	}
}

func (a *App) getTheme() models.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

func (a *App) setTheme(t models.Theme) {
	a.mu.Lock()
	a.theme = t
	a.mu.Unlock()
}

// checkOnline probes the entry server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
