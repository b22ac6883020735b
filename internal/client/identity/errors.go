package identity

import (
	"fmt"

	pb "github.com/dmitrijs2005/mhst/internal/proto"
)

// Provider error codes.
const (
	CodeInvalidEmail         = pb.ReasonInvalidEmail
	CodeWrongPassword        = pb.ReasonWrongPassword
	CodeUserNotFound         = pb.ReasonUserNotFound
	CodeUserDisabled         = pb.ReasonUserDisabled
	CodeEmailAlreadyInUse    = pb.ReasonEmailAlreadyInUse
	CodeWeakPassword         = pb.ReasonWeakPassword
	CodeNetworkRequestFailed = "ERROR_NETWORK_REQUEST_FAILED"
)

var messages = map[string]string{
	CodeInvalidEmail:         "Invalid email address",
	CodeWrongPassword:        "Incorrect password",
	CodeUserNotFound:         "No account found with this email",
	CodeUserDisabled:         "This account has been disabled",
	CodeEmailAlreadyInUse:    "Email already registered",
	CodeWeakPassword:         "Password should be at least 6 characters",
	CodeNetworkRequestFailed: "Network error. Check your connection",
}

// GenericMessage is shown for codes missing from the table.
const GenericMessage = "Authentication failed"

// MessageForCode maps a provider error code to a user-facing message.
func MessageForCode(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return GenericMessage
}

// ProviderError is a failure reported by the identity provider.
type ProviderError struct {
	Code   string
	Detail string
}

func (e *ProviderError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("identity provider: %s", e.Code)
	}
	return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Detail)
}
