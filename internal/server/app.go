// Package server initializes and runs the identity server: it opens the
// account store, wires the account service and serves it over gRPC until
// the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/dmitrijs2005/mhst/internal/server/config"
	"github.com/dmitrijs2005/mhst/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mhst/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/mhst/internal/server/grpc"
)

// HealthInterval is how often the database connection is checked while the
// server runs.
var HealthInterval = 30 * time.Second

var (
	openPostgres = repomanager.OpenPostgres
	newManager   = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sqlx.DB
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger.With("module", "app")}

	repo, err := app.openAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	svc := services.NewAccountService(repo, cfg, logger)
	app.server = gs.NewGRPCServer(cfg.GRPCAddr, logger, svc)

	return app, nil
}

func (app *App) openAccounts(ctx context.Context) (accounts.Repository, error) {
	if app.config.InMemory() {
		app.logger.Warn(ctx, "using in-memory account store, accounts are lost on exit")
		return accounts.NewMemoryRepository(), nil
	}

	db, err := openPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	m := newManager()
	if err := m.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app.db = db
	return m.Accounts(db), nil
}

// Run serves until ctx is cancelled or the server fails, then releases the
// database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.server.Run(gctx)
	})

	if app.db != nil {
		g.Go(func() error {
			app.watchDatabase(gctx)
			return nil
		})
	}

	err := g.Wait()

	if app.db != nil {
		err = errors.Join(err, app.db.Close())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) watchDatabase(ctx context.Context) {
	ticker := time.NewTicker(HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.db.PingContext(ctx); err != nil && ctx.Err() == nil {
				app.logger.Error(ctx, "database ping failed", "error", err)
			}
		}
	}
}
