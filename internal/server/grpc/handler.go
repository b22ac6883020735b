package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/mhst/internal/proto"
	"github.com/dmitrijs2005/mhst/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	creds, err := pb.CredentialsFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sess, err := s.accounts.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, s.toStatus(ctx, pb.MethodSignUp, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", sess.Account.ID)
	return sessionReply(sess), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	creds, err := pb.CredentialsFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sess, err := s.accounts.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, s.toStatus(ctx, pb.MethodSignIn, err)
	}

	return sessionReply(sess), nil
}

func (s *GRPCServer) Whoami(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	account, ok := accountFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return (&pb.Account{UserID: account.ID, Email: account.Email}).Struct(), nil
}

func (s *GRPCServer) Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return (&pb.PingReply{Status: "OK"}).Struct(), nil
}

func sessionReply(sess *services.Session) *structpb.Struct {
	return (&pb.Account{
		UserID:    sess.Account.ID,
		Email:     sess.Account.Email,
		IDToken:   sess.Token,
		ExpiresAt: sess.ExpiresAt.Unix(),
	}).Struct()
}
