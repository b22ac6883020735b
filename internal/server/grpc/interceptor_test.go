package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/logging"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/dmitrijs2005/mhst/internal/server/models"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeAccounts struct {
	account   *models.Account
	whoamiErr error
	lastToken string
}

func (f *fakeAccounts) SignUp(ctx context.Context, email, password string) (*services.Session, error) {
	return nil, services.ErrEmailInUse
}

func (f *fakeAccounts) SignIn(ctx context.Context, email, password string) (*services.Session, error) {
	return nil, services.ErrWrongPassword
}

func (f *fakeAccounts) Whoami(ctx context.Context, token string) (*models.Account, error) {
	f.lastToken = token
	return f.account, f.whoamiErr
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	}))
}

func TestInterceptor_PublicMethodSkipsToken(t *testing.T) {
	fa := &fakeAccounts{}
	s := NewGRPCServer(":0", logging.NewNop(), fa)

	called := false
	h := func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	}

	for _, m := range []string{pb.MethodSignIn, pb.MethodSignUp, pb.MethodPing} {
		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	}
	assert.True(t, called)
	assert.Empty(t, fa.lastToken)
}

func TestInterceptor_WhoamiMissingToken(t *testing.T) {
	s := NewGRPCServer(":0", logging.NewNop(), &fakeAccounts{})

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodWhoami}, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
	assert.Equal(t, pb.ReasonInvalidToken, errorInfo(t, err).Reason)
}

func TestInterceptor_WhoamiInvalidToken(t *testing.T) {
	fa := &fakeAccounts{whoamiErr: common.ErrInvalidToken}
	s := NewGRPCServer(":0", logging.NewNop(), fa)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withToken("not-a-jwt"), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodWhoami}, h)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, pb.ReasonInvalidToken, errorInfo(t, err).Reason)
	assert.Equal(t, "not-a-jwt", fa.lastToken)
}

func TestInterceptor_WhoamiValidTokenSetsAccount(t *testing.T) {
	acc := &models.Account{ID: "id-1", Email: "a@x.com"}
	s := NewGRPCServer(":0", logging.NewNop(), &fakeAccounts{account: acc})

	var got *models.Account
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = accountFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(withToken("good"), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodWhoami}, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Same(t, acc, got)
}

func TestWhoami_WithoutInterceptorIsUnauthenticated(t *testing.T) {
	s := NewGRPCServer(":0", logging.NewNop(), &fakeAccounts{})

	_, err := s.Whoami(context.Background(), pb.Empty())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
