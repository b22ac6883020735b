// Package app assembles the client: it opens the local databases, picks the
// identity provider and builds the services once, at startup. Consumers get
// their dependencies from the Container instead of package-level state.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/mhst/internal/client/config"
	"github.com/dmitrijs2005/mhst/internal/client/identity"
	"github.com/dmitrijs2005/mhst/internal/client/media"
	"github.com/dmitrijs2005/mhst/internal/client/services"
	"github.com/dmitrijs2005/mhst/internal/client/session"
	"github.com/dmitrijs2005/mhst/internal/client/store"
	"github.com/dmitrijs2005/mhst/internal/filex"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

// Container holds the process-wide client objects.
type Container struct {
	Config *config.Config
	Log    logging.Logger

	Store    *store.Store
	Session  *session.Store
	Provider identity.Provider
	Media    *media.Resolver

	Users      *services.UserService
	Articles   *services.ArticleService
	Therapists *services.TherapistService
	Auth       *services.AuthService

	closers []func() error
}

// New opens everything cfg describes. On error, whatever was already opened
// is closed again.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}
	if err := c.open(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) open(ctx context.Context) error {
	cfg, log := c.Config, c.Log

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return err
	}

	c.Store, err = store.Open(ctx, filepath.Join(dir, cfg.DatabaseFile), store.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	c.closers = append(c.closers, c.Store.Close)

	c.Session, err = session.Open(ctx, filepath.Join(dir, cfg.SessionFile), log)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	c.closers = append(c.closers, c.Session.Close)

	if cfg.LocalOnly() {
		c.Provider = identity.Offline{}
	} else {
		p, err := identity.NewGRPCProvider(cfg.IdentityEndpoint, cfg.IdentityTimeout)
		if err != nil {
			return fmt.Errorf("identity client: %w", err)
		}
		c.Provider = p
		c.closers = append(c.closers, p.Close)
	}

	c.Media = media.NewResolver(cfg, log)

	c.Users = services.NewUserService(c.Store.Users(), log)
	c.Articles = services.NewArticleService(c.Store.Articles(), c.Media)
	c.Therapists = services.NewTherapistService(c.Store.Therapists(), c.Media)
	c.Auth = services.NewAuthService(
		identity.NewCoordinator(c.Provider, log),
		c.Users,
		c.Session,
		cfg.LocalOnly(),
		log,
	)

	log.Info(ctx, "client ready", "data_dir", dir, "local_only", cfg.LocalOnly())
	return nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
