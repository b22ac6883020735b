package identity

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/logging"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeIdentityServer struct {
	pb.UnimplementedIdentityServiceServer

	signInErr error
	token     string
	expiresAt int64

	lastCreds *pb.Credentials
	lastToken string
}

func reasonErr(c codes.Code, reason string) error {
	st := status.New(c, reason)
	st, _ = st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: pb.ErrorDomain})
	return st.Err()
}

func (s *fakeIdentityServer) account(email string) *structpb.Struct {
	return (&pb.Account{UserID: "uid-" + email, Email: email, IDToken: s.token, ExpiresAt: s.expiresAt}).Struct()
}

func (s *fakeIdentityServer) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := pb.CredentialsFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.lastCreds = c
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.account(c.Email), nil
}

func (s *fakeIdentityServer) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := pb.CredentialsFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if c.Email == "taken@x.com" {
		return nil, reasonErr(codes.AlreadyExists, pb.ReasonEmailAlreadyInUse)
	}
	return s.account(c.Email), nil
}

func (s *fakeIdentityServer) Whoami(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	v := md.Get(common.AccessTokenHeaderName)
	if len(v) == 0 || v[0] != s.token {
		return nil, reasonErr(codes.Unauthenticated, pb.ReasonInvalidToken)
	}
	s.lastToken = v[0]
	return (&pb.Account{UserID: "uid-me", Email: "me@x.com"}).Struct(), nil
}

func (s *fakeIdentityServer) Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return (&pb.PingReply{Status: "OK"}).Struct(), nil
}

func startServer(t *testing.T, srv pb.IdentityServiceServer) *GRPCProvider {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	pb.RegisterIdentityServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	p, err := NewGRPCProvider("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "u", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestGRPCProvider_SignInStoresIdentity(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	srv := &fakeIdentityServer{token: signedToken(t, exp)}
	p := startServer(t, srv)

	id, err := p.SignIn(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-a@x.com", id.UID)
	assert.True(t, exp.Equal(id.ExpiresAt))
	assert.Equal(t, &pb.Credentials{Email: "a@x.com", Password: "secret1"}, srv.lastCreds)

	cur := p.CurrentUser()
	require.NotNil(t, cur)
	assert.Equal(t, "a@x.com", cur.Email)
}

func TestGRPCProvider_ExpiryFallsBackToReply(t *testing.T) {
	srv := &fakeIdentityServer{token: "opaque", expiresAt: 1893456000}
	p := startServer(t, srv)

	id, err := p.SignIn(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1893456000), id.ExpiresAt.Unix())
}

func TestGRPCProvider_ExpiredIdentityIsNotCurrent(t *testing.T) {
	srv := &fakeIdentityServer{token: "opaque", expiresAt: 1000}
	p := startServer(t, srv)

	_, err := p.SignIn(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, p.CurrentUser())
}

func TestGRPCProvider_ReasonBecomesProviderError(t *testing.T) {
	srv := &fakeIdentityServer{signInErr: reasonErr(codes.Unauthenticated, pb.ReasonWrongPassword)}
	p := startServer(t, srv)

	_, err := p.SignIn(context.Background(), "a@x.com", "secret1")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeWrongPassword, pe.Code)
	assert.Nil(t, p.CurrentUser())

	_, err = p.SignUp(context.Background(), "taken@x.com", "secret1")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeEmailAlreadyInUse, pe.Code)
}

func TestGRPCProvider_WhoamiSendsToken(t *testing.T) {
	srv := &fakeIdentityServer{token: "opaque"}
	p := startServer(t, srv)

	_, err := p.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = p.SignUp(context.Background(), "me@x.com", "secret1")
	require.NoError(t, err)

	id, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uid-me", id.UID)
	assert.Equal(t, "opaque", srv.lastToken)
}

func TestGRPCProvider_SignOutForgetsToken(t *testing.T) {
	srv := &fakeIdentityServer{token: "opaque"}
	p := startServer(t, srv)

	_, err := p.SignIn(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(context.Background()))
	assert.Nil(t, p.CurrentUser())

	_, err = p.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestGRPCProvider_Ping(t *testing.T) {
	p := startServer(t, &fakeIdentityServer{})
	require.NoError(t, p.Ping(context.Background()))
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, mapError(plain))

	var pe *ProviderError
	require.ErrorAs(t, mapError(status.Error(codes.Unavailable, "down")), &pe)
	assert.Equal(t, CodeNetworkRequestFailed, pe.Code)

	require.ErrorAs(t, mapError(status.Error(codes.DeadlineExceeded, "slow")), &pe)
	assert.Equal(t, CodeNetworkRequestFailed, pe.Code)

	assert.ErrorIs(t, mapError(status.Error(codes.Unauthenticated, "no")), common.ErrUnauthorized)

	other := mapError(status.Error(codes.Internal, "x"))
	assert.False(t, errors.As(other, &pe))
	assert.ErrorContains(t, other, "rpc error")

	foreign := status.New(codes.Internal, "x")
	foreign, _ = foreign.WithDetails(&errdetails.ErrorInfo{Reason: pb.ReasonWrongPassword, Domain: "elsewhere"})
	assert.False(t, errors.As(mapError(foreign.Err()), &pe))
}

func TestGRPCProvider_UnreachableIsNetworkError(t *testing.T) {
	p, err := NewGRPCProvider("127.0.0.1:1", 300*time.Millisecond)
	require.NoError(t, err)
	defer p.Close()

	c := NewCoordinator(p, logging.NewNop())
	r := c.Login(context.Background(), "a@x.com", "secret1")
	assert.Equal(t, CodeNetworkRequestFailed, r.Code)
}
