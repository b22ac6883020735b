package grpc

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/common"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/dmitrijs2005/mhst/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const accountKey ctxKey = "account"

// authenticated lists the methods that require an access token.
var authenticated = map[string]bool{
	pb.MethodWhoami: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !authenticated[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, reasonError(codes.Unauthenticated, "missing token", pb.ReasonInvalidToken)
	}

	account, err := s.accounts.Whoami(ctx, accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, info.FullMethod, err)
	}

	return handler(context.WithValue(ctx, accountKey, account), req)
}

func accountFromContext(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(accountKey).(*models.Account)
	return a, ok && a != nil
}
