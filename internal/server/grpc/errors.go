package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mhst/internal/common"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorMapping struct {
	err    error
	code   codes.Code
	reason string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidEmail, codes.InvalidArgument, pb.ReasonInvalidEmail},
	{services.ErrWeakPassword, codes.InvalidArgument, pb.ReasonWeakPassword},
	{services.ErrWrongPassword, codes.Unauthenticated, pb.ReasonWrongPassword},
	{services.ErrUserNotFound, codes.NotFound, pb.ReasonUserNotFound},
	{services.ErrUserDisabled, codes.PermissionDenied, pb.ReasonUserDisabled},
	{services.ErrEmailInUse, codes.AlreadyExists, pb.ReasonEmailAlreadyInUse},
	{common.ErrInvalidToken, codes.Unauthenticated, pb.ReasonInvalidToken},
	{common.ErrTokenExpired, codes.Unauthenticated, pb.ReasonInvalidToken},
}

// reasonError builds a status carrying an ErrorInfo detail in the identity
// error domain.
func reasonError(code codes.Code, msg, reason string) error {
	st := status.New(code, msg)
	if withInfo, err := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: pb.ErrorDomain}); err == nil {
		st = withInfo
	}
	return st.Err()
}

// toStatus converts a service error into a gRPC status. Unknown errors are
// logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			s.logger.Info(ctx, "request rejected", "method", method, "reason", m.reason)
			return reasonError(m.code, m.err.Error(), m.reason)
		}
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
