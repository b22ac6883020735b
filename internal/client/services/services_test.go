package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/mhst/internal/client/identity"
	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/session"
	"github.com/dmitrijs2005/mhst/internal/client/store"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/livequery"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), dbx.MemoryPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.WaitSeeded(context.Background()))
	return s
}

func openSession(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(context.Background(), dbx.MemoryPath, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func next[T any](t *testing.T, s *livequery.Subscription[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := s.Next(ctx)
	require.NoError(t, err)
	return v
}

// fakeProvider is an identity.Provider with canned replies.
type fakeProvider struct {
	SignInRet  *identity.Identity
	SignInErr  error
	SignUpRet  *identity.Identity
	SignUpErr  error
	SignOutErr error

	current      *identity.Identity
	LastEmail    string
	LastPassword string
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.SignInErr == nil {
		f.current = f.SignInRet
	}
	return f.SignInRet, f.SignInErr
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*identity.Identity, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.SignUpErr == nil {
		f.current = f.SignUpRet
	}
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.current = nil
	return f.SignOutErr
}

func (f *fakeProvider) CurrentUser() *identity.Identity {
	return f.current
}

// failingSession fails every write.
type failingSession struct{}

func (failingSession) Save(context.Context, int64, string, string) error {
	return errors.New("disk full")
}

func (failingSession) Current(context.Context) (*models.Session, error) { return nil, nil }

func (failingSession) Clear(context.Context) error { return errors.New("disk full") }
