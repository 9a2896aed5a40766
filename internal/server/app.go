// Package server wires the entry server: configuration, logging, the
// PostgreSQL pool and migrations, and the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/auth"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdiary/internal/server/rest"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *rest.HTTPServer
}

// NewApp connects to the database, applies migrations and builds the HTTP
// server. The returned App owns the database pool.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN, c.DBConnectTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	es := services.NewEntryService(db, rm)
	hs, err := rest.NewHTTPServer(rest.Options{
		Address:         c.EndpointAddrHTTP,
		AllowedOrigins:  c.AllowedOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
	}, logger, es, auth.NewVerifier([]byte(c.JWTSecret), c.JWTAudience))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, http: hs}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, then shuts down and closes
// the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	err := app.http.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing database failed", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}
