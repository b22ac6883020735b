package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mhst/internal/client/migrations"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/articles"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/therapists"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/users"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/livequery"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

const (
	// SchemaVersion is the latest embedded migration.
	SchemaVersion int64 = 2
	// FileName is the database file name inside the data directory.
	FileName = "mhst_database.db"
)

type options struct {
	log  logging.Logger
	seed bool
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithoutSeed disables first-run seeding.
func WithoutSeed() Option {
	return func(o *options) { o.seed = false }
}

type Store struct {
	db      *sqlx.DB
	hub     *livequery.Hub
	log     logging.Logger
	created bool

	seeded  chan struct{}
	seedErr error

	users      *users.SQLiteRepository
	articles   *articles.SQLiteRepository
	therapists *therapists.SQLiteRepository

	closeOnce sync.Once
	closeErr  error
}

func newProvider(db *sqlx.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectSQLite3, db.DB, migrations.Migrations)
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := options{log: logging.NewNop(), seed: true}
	for _, fn := range opts {
		fn(&o)
	}
	log := o.log.With("module", "store")

	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	created, err := migrate(ctx, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hub := livequery.NewHub(log)
	s := &Store{
		db:         db,
		hub:        hub,
		log:        log,
		created:    created,
		seeded:     make(chan struct{}),
		users:      users.NewSQLiteRepository(db, hub),
		articles:   articles.NewSQLiteRepository(db, hub),
		therapists: therapists.NewSQLiteRepository(db, hub),
	}

	if created && o.seed {
		go s.seed(context.WithoutCancel(ctx))
	} else {
		close(s.seeded)
	}

	log.Info(ctx, "store opened", "path", path, "created", created)
	return s, nil
}

// migrate brings the schema to SchemaVersion and reports whether the
// database was created from scratch.
func migrate(ctx context.Context, db *sqlx.DB, log logging.Logger) (bool, error) {
	p, err := newProvider(db)
	if err != nil {
		return false, fmt.Errorf("goose provider: %w", err)
	}

	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("read schema version: %w", err)
	}

	created := version == 0
	if version != 0 && version != SchemaVersion {
		log.Warn(ctx, "schema version mismatch, recreating database", "found", version, "want", SchemaVersion)
		if err := destroy(ctx, db); err != nil {
			return false, err
		}
		if p, err = newProvider(db); err != nil {
			return false, fmt.Errorf("goose provider: %w", err)
		}
		created = true
	}

	if _, err := p.Up(ctx); err != nil {
		return false, fmt.Errorf("apply migrations: %w", err)
	}
	return created, nil
}

// destroy drops every user table, including goose's version table.
func destroy(ctx context.Context, db *sqlx.DB) error {
	var tables []string
	err := db.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, t)); err != nil {
				return fmt.Errorf("drop %s: %w", t, err)
			}
		}
		return nil
	})
}

// Created reports whether this Open created the database.
func (s *Store) Created() bool { return s.created }

// WaitSeeded blocks until first-run seeding has finished (immediately when
// there was nothing to seed) and returns its error.
func (s *Store) WaitSeeded(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.seeded:
		return s.seedErr
	}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Hub() *livequery.Hub {
	return s.hub
}

func (s *Store) Users() users.Repository {
	return s.users
}

func (s *Store) Articles() articles.Repository {
	return s.articles
}

func (s *Store) Therapists() therapists.Repository {
	return s.therapists
}

// Close waits for seeding, ends all live queries and closes the database.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		<-s.seeded
		s.hub.Close()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
