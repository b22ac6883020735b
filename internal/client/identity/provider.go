// Package identity coordinates sign-in and sign-up against a remote identity
// provider.
//
// The Coordinator validates credentials locally, calls the Provider and turns
// every outcome into a Result: Idle, Loading, Success with the provider's
// user id, or Error with a user-facing message. It does not persist
// anything; copying a successful identity into the session store is the
// caller's job.
package identity

import (
	"context"
	"time"
)

// Identity is a user as known to the identity provider.
type Identity struct {
	UID       string
	Email     string
	ExpiresAt time.Time
}

// Provider is the remote identity service.
//
// Failures the provider can explain are returned as *ProviderError.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns the signed-in identity or nil.
	CurrentUser() *Identity
}

// Offline is a Provider for builds without an identity endpoint. Every call
// fails with the network error code.
type Offline struct{}

func (Offline) SignIn(context.Context, string, string) (*Identity, error) {
	return nil, &ProviderError{Code: CodeNetworkRequestFailed}
}

func (Offline) SignUp(context.Context, string, string) (*Identity, error) {
	return nil, &ProviderError{Code: CodeNetworkRequestFailed}
}

func (Offline) SignOut(context.Context) error { return nil }

func (Offline) CurrentUser() *Identity { return nil }
