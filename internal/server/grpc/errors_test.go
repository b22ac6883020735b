package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/logging"
	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errorInfo(t *testing.T, err error) *errdetails.ErrorInfo {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	return nil
}

func TestToStatus(t *testing.T) {
	s := NewGRPCServer(":0", logging.NewNop(), nil)

	tests := []struct {
		err    error
		code   codes.Code
		reason string
	}{
		{services.ErrInvalidEmail, codes.InvalidArgument, pb.ReasonInvalidEmail},
		{services.ErrWeakPassword, codes.InvalidArgument, pb.ReasonWeakPassword},
		{services.ErrWrongPassword, codes.Unauthenticated, pb.ReasonWrongPassword},
		{services.ErrUserNotFound, codes.NotFound, pb.ReasonUserNotFound},
		{services.ErrUserDisabled, codes.PermissionDenied, pb.ReasonUserDisabled},
		{fmt.Errorf("wrapped: %w", services.ErrEmailInUse), codes.AlreadyExists, pb.ReasonEmailAlreadyInUse},
		{common.ErrInvalidToken, codes.Unauthenticated, pb.ReasonInvalidToken},
		{common.ErrTokenExpired, codes.Unauthenticated, pb.ReasonInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			err := s.toStatus(context.Background(), pb.MethodSignIn, tt.err)
			assert.Equal(t, tt.code, status.Code(err))

			info := errorInfo(t, err)
			require.NotNil(t, info)
			assert.Equal(t, tt.reason, info.Reason)
			assert.Equal(t, pb.ErrorDomain, info.Domain)
		})
	}
}

func TestToStatus_UnknownIsInternalWithoutDetails(t *testing.T) {
	s := NewGRPCServer(":0", logging.NewNop(), nil)

	err := s.toStatus(context.Background(), pb.MethodSignUp, errors.New("db down"))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
	assert.Nil(t, errorInfo(t, err))
}
