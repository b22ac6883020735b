// Package session persists the identity of the user logged in on this device.
//
// The record lives in its own SQLite file as four keys of the mhst_session
// preferences namespace. It is independent of the main database: there is
// no transaction spanning both.
package session

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/dmitrijs2005/mhst/internal/client/migrations"
	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

const (
	FileName  = "mhst_session.db"
	Namespace = "mhst_session"

	KeyUserID     = "user_id"
	KeyUserName   = "user_name"
	KeyUserEmail  = "user_email"
	KeyIsLoggedIn = "is_logged_in"

	// NoUser is returned by UserID when no session is stored.
	NoUser int64 = -1
)

type Store struct {
	db    *sqlx.DB
	prefs *preferences.SQLiteRepository
	log   logging.Logger
}

// Open opens the session database at path, applying its schema.
func Open(ctx context.Context, path string, log logging.Logger) (*Store, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(migrations.SessionMigrations, "session")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply session migrations: %w", err)
	}

	return &Store{
		db:    db,
		prefs: preferences.NewSQLiteRepository(db, Namespace),
		log:   log.With("module", "session"),
	}, nil
}

// Save stores the user and marks the session logged in. All four keys are
// written in one transaction.
func (s *Store) Save(ctx context.Context, userID int64, name, email string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p := s.prefs.InTx(tx)
		if err := p.Set(ctx, KeyUserID, []byte(strconv.FormatInt(userID, 10))); err != nil {
			return err
		}
		if err := p.Set(ctx, KeyUserName, []byte(name)); err != nil {
			return err
		}
		if err := p.Set(ctx, KeyUserEmail, []byte(email)); err != nil {
			return err
		}
		return p.Set(ctx, KeyIsLoggedIn, []byte(strconv.FormatBool(true)))
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.log.Debug(ctx, "session saved", "user_id", userID)
	return nil
}

// IsLoggedIn reports whether the logged-in flag is set. A missing flag means
// logged out.
func (s *Store) IsLoggedIn(ctx context.Context) (bool, error) {
	v, err := s.prefs.Get(ctx, KeyIsLoggedIn)
	if err != nil || v == nil {
		return false, err
	}
	ok, err := strconv.ParseBool(string(v))
	if err != nil {
		return false, fmt.Errorf("corrupt %s: %w", KeyIsLoggedIn, err)
	}
	return ok, nil
}

// UserID returns the stored user id or NoUser.
func (s *Store) UserID(ctx context.Context) (int64, error) {
	v, err := s.prefs.Get(ctx, KeyUserID)
	if err != nil {
		return NoUser, err
	}
	if v == nil {
		return NoUser, nil
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return NoUser, fmt.Errorf("corrupt %s: %w", KeyUserID, err)
	}
	return id, nil
}

// UserName returns the stored name; ok is false when absent.
func (s *Store) UserName(ctx context.Context) (name string, ok bool, err error) {
	return s.getString(ctx, KeyUserName)
}

// UserEmail returns the stored email; ok is false when absent.
func (s *Store) UserEmail(ctx context.Context) (email string, ok bool, err error) {
	return s.getString(ctx, KeyUserEmail)
}

// Current returns the stored session, or nil when logged out.
func (s *Store) Current(ctx context.Context) (*models.Session, error) {
	in, err := s.IsLoggedIn(ctx)
	if err != nil || !in {
		return nil, err
	}

	id, err := s.UserID(ctx)
	if err != nil {
		return nil, err
	}
	name, _, err := s.UserName(ctx)
	if err != nil {
		return nil, err
	}
	email, _, err := s.UserEmail(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Session{UserID: id, UserName: name, UserEmail: email}, nil
}

// Clear removes every session key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.prefs.Clear(ctx); err != nil {
		return err
	}
	s.log.Debug(ctx, "session cleared")
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) getString(ctx context.Context, key string) (string, bool, error) {
	v, err := s.prefs.Get(ctx, key)
	if err != nil || v == nil {
		return "", false, err
	}
	return string(v), true, nil
}
