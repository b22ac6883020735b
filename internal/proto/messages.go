package proto

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Credentials is the SignUp and SignIn request.
type Credentials struct {
	Email    string
	Password string
}

func (c *Credentials) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"email":    structpb.NewStringValue(c.Email),
		"password": structpb.NewStringValue(c.Password),
	}}
}

func CredentialsFromStruct(s *structpb.Struct) (*Credentials, error) {
	email, err := stringField(s, "email")
	if err != nil {
		return nil, err
	}
	password, err := stringField(s, "password")
	if err != nil {
		return nil, err
	}
	return &Credentials{Email: email, Password: password}, nil
}

// Account is returned by SignUp, SignIn and Whoami. IDToken is empty in
// Whoami replies.
type Account struct {
	UserID    string
	Email     string
	IDToken   string
	ExpiresAt int64 // unix seconds
}

func (a *Account) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"user_id":    structpb.NewStringValue(a.UserID),
		"email":      structpb.NewStringValue(a.Email),
		"id_token":   structpb.NewStringValue(a.IDToken),
		"expires_at": structpb.NewNumberValue(float64(a.ExpiresAt)),
	}}
}

func AccountFromStruct(s *structpb.Struct) (*Account, error) {
	uid, err := stringField(s, "user_id")
	if err != nil {
		return nil, err
	}
	email, err := stringField(s, "email")
	if err != nil {
		return nil, err
	}
	token, err := stringField(s, "id_token")
	if err != nil {
		return nil, err
	}
	exp, err := numberField(s, "expires_at")
	if err != nil {
		return nil, err
	}
	return &Account{UserID: uid, Email: email, IDToken: token, ExpiresAt: int64(exp)}, nil
}

// PingReply reports server health.
type PingReply struct {
	Status string
}

func (p *PingReply) Struct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue(p.Status),
	}}
}

func PingReplyFromStruct(s *structpb.Struct) (*PingReply, error) {
	st, err := stringField(s, "status")
	if err != nil {
		return nil, err
	}
	return &PingReply{Status: st}, nil
}

// Empty is the request of parameterless methods.
func Empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q: want string", name)
	}
	return sv.StringValue, nil
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q: want number", name)
	}
	return nv.NumberValue, nil
}
