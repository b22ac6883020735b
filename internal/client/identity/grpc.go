package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mhst/internal/common"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultCallTimeout bounds every identity RPC.
const DefaultCallTimeout = 10 * time.Second

// GRPCProvider is a Provider backed by the identity gRPC service.
type GRPCProvider struct {
	conn    *grpc.ClientConn
	client  pb.IdentityServiceClient
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	token   string
	current *Identity
}

// NewGRPCProvider creates a client for endpoint (host:port). Extra dial
// options are appended to the defaults (plaintext transport).
func NewGRPCProvider(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCProvider, error) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	p := &GRPCProvider{timeout: timeout, now: time.Now}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(p.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	p.client = pb.NewIdentityServiceClient(conn)
	return p, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (p *GRPCProvider) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()

	if token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (p *GRPCProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return p.authenticate(ctx, p.client.SignIn, email, password)
}

func (p *GRPCProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return p.authenticate(ctx, p.client.SignUp, email, password)
}

type rpc func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

func (p *GRPCProvider) authenticate(ctx context.Context, call rpc, email, password string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := &pb.Credentials{Email: email, Password: password}
	resp, err := call(ctx, req.Struct())
	if err != nil {
		return nil, mapError(err)
	}

	acc, err := pb.AccountFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("malformed reply: %w", err)
	}

	id := &Identity{UID: acc.UserID, Email: acc.Email, ExpiresAt: tokenExpiry(acc.IDToken, acc.ExpiresAt)}

	p.mu.Lock()
	p.token = acc.IDToken
	p.current = id
	p.mu.Unlock()

	return id, nil
}

// tokenExpiry prefers the exp claim of the token; the server is trusted
// here since the token is only echoed back to it.
func tokenExpiry(token string, fallback int64) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if fallback > 0 {
		return time.Unix(fallback, 0)
	}
	return time.Time{}
}

// SignOut forgets the local token. The service keeps no session state.
func (p *GRPCProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.token = ""
	p.current = nil
	p.mu.Unlock()
	return nil
}

// CurrentUser returns the signed-in identity unless its token has expired.
func (p *GRPCProvider) CurrentUser() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	if !p.current.ExpiresAt.IsZero() && !p.now().Before(p.current.ExpiresAt) {
		return nil
	}
	cp := *p.current
	return &cp
}

// Refresh asks the service who the token belongs to. A rejected token signs
// the provider out.
func (p *GRPCProvider) Refresh(ctx context.Context) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Whoami(ctx, pb.Empty())
	if err != nil {
		err = mapError(err)
		if errors.Is(err, common.ErrUnauthorized) {
			_ = p.SignOut(ctx)
		}
		return nil, err
	}

	acc, err := pb.AccountFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("malformed reply: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		p.current = &Identity{}
	}
	p.current.UID = acc.UserID
	p.current.Email = acc.Email
	if acc.ExpiresAt > 0 {
		p.current.ExpiresAt = time.Unix(acc.ExpiresAt, 0)
	}
	cp := *p.current
	return &cp, nil
}

// Ping checks that the service is reachable.
func (p *GRPCProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Ping(ctx, pb.Empty())
	if err != nil {
		return mapError(err)
	}
	r, err := pb.PingReplyFromStruct(resp)
	if err != nil || r.Status != "OK" {
		return &ProviderError{Code: CodeNetworkRequestFailed, Detail: "unhealthy"}
	}
	return nil
}

func (p *GRPCProvider) Close() error {
	return p.conn.Close()
}

// mapError converts a gRPC status into a *ProviderError when the server sent
// a reason, or when the service could not be reached.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == pb.ErrorDomain {
			if info.GetReason() == pb.ReasonInvalidToken {
				return fmt.Errorf("%w: %s", common.ErrUnauthorized, st.Message())
			}
			return &ProviderError{Code: info.GetReason(), Detail: st.Message()}
		}
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &ProviderError{Code: CodeNetworkRequestFailed, Detail: st.Message()}
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
