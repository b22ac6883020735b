package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/mhst/internal/client/identity"
	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/dmitrijs2005/mhst/internal/server/config"
	"github.com/dmitrijs2005/mhst/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.NewNop(), &fakeAccounts{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.NewNop(), &fakeAccounts{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, srv.Run(ctx))
}

// startIdentity serves a real account service over bufconn and returns a
// client provider connected to it.
func startIdentity(t *testing.T) (*identity.GRPCProvider, *accounts.MemoryRepository) {
	t.Helper()

	repo := accounts.NewMemoryRepository()
	svc := services.NewAccountService(repo, &config.Config{JWTSecret: "k", TokenValidity: time.Hour}, logging.NewNop())
	srv := NewGRPCServer("bufnet", logging.NewNop(), svc)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	p, err := identity.NewGRPCProvider("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p, repo
}

func providerCode(t *testing.T, err error) string {
	t.Helper()
	var pe *identity.ProviderError
	require.True(t, errors.As(err, &pe), "want ProviderError, got %v", err)
	return pe.Code
}

func TestEndToEnd_SignUpSignInWhoami(t *testing.T) {
	p, _ := startIdentity(t)
	ctx := context.Background()

	require.NoError(t, p.Ping(ctx))

	up, err := p.SignUp(ctx, "Alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", up.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), up.ExpiresAt, 5*time.Second)

	require.NoError(t, p.SignOut(ctx))
	assert.Nil(t, p.CurrentUser())

	in, err := p.SignIn(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, up.UID, in.UID)

	me, err := p.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, up.UID, me.UID)
	assert.Equal(t, "alice@x.com", me.Email)
}

func TestEndToEnd_ProviderCodes(t *testing.T) {
	p, repo := startIdentity(t)
	ctx := context.Background()

	up, err := p.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "a@x.com", "secret1")
	assert.Equal(t, identity.CodeEmailAlreadyInUse, providerCode(t, err))

	_, err = p.SignUp(ctx, "b@x.com", "123")
	assert.Equal(t, identity.CodeWeakPassword, providerCode(t, err))

	_, err = p.SignUp(ctx, "not-an-email", "secret1")
	assert.Equal(t, identity.CodeInvalidEmail, providerCode(t, err))

	_, err = p.SignIn(ctx, "a@x.com", "wrong-one")
	assert.Equal(t, identity.CodeWrongPassword, providerCode(t, err))

	_, err = p.SignIn(ctx, "nobody@x.com", "secret1")
	assert.Equal(t, identity.CodeUserNotFound, providerCode(t, err))

	require.NoError(t, repo.SetDisabled(up.UID, true))
	_, err = p.SignIn(ctx, "a@x.com", "secret1")
	assert.Equal(t, identity.CodeUserDisabled, providerCode(t, err))
}

func TestEndToEnd_WhoamiWithoutToken(t *testing.T) {
	p, _ := startIdentity(t)

	_, err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
