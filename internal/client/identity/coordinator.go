package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/mhst/internal/logging"
)

// MinPasswordLength is the shortest password accepted before any network call.
const MinPasswordLength = 6

// Validation messages.
const (
	MsgEmptyEmail       = "Email cannot be empty"
	MsgEmptyPassword    = "Password cannot be empty"
	MsgShortPassword    = "Password must be at least 6 characters"
	MsgLoginFailed      = "Login failed"
	MsgRegistrationFail = "Registration failed"
)

// Validate checks credentials locally. It returns "" when they are
// acceptable.
func Validate(email, password string) string {
	switch {
	case strings.TrimSpace(email) == "":
		return MsgEmptyEmail
	case strings.TrimSpace(password) == "":
		return MsgEmptyPassword
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return MsgShortPassword
	}
	return ""
}

// Coordinator runs auth operations against a Provider and publishes their
// state.
type Coordinator struct {
	provider Provider
	log      logging.Logger

	mu    sync.Mutex
	state Result
	subs  map[chan Result]struct{}
}

func NewCoordinator(p Provider, log logging.Logger) *Coordinator {
	return &Coordinator{
		provider: p,
		log:      log.With("module", "auth"),
		state:    Idle(),
		subs:     make(map[chan Result]struct{}),
	}
}

// Login signs in. The returned Result is also published as the new state.
func (c *Coordinator) Login(ctx context.Context, email, password string) Result {
	return c.run(ctx, email, password, MsgLoginFailed, c.provider.SignIn)
}

// Register creates an account and signs it in.
func (c *Coordinator) Register(ctx context.Context, email, password string) Result {
	return c.run(ctx, email, password, MsgRegistrationFail, c.provider.SignUp)
}

type signFunc func(ctx context.Context, email, password string) (*Identity, error)

func (c *Coordinator) run(ctx context.Context, email, password, fallback string, call signFunc) Result {
	if msg := Validate(email, password); msg != "" {
		return c.set(Failure(msg))
	}

	c.set(Loading())

	id, err := call(ctx, email, password)
	if err != nil {
		return c.set(c.failure(ctx, err, fallback))
	}
	if id == nil {
		return c.set(Success(""))
	}
	return c.set(Success(id.UID))
}

func (c *Coordinator) failure(ctx context.Context, err error, fallback string) Result {
	var pe *ProviderError
	if errors.As(err, &pe) {
		c.log.Info(ctx, "identity provider rejected request", "code", pe.Code)
		return Result{Kind: KindError, Message: MessageForCode(pe.Code), Code: pe.Code}
	}
	c.log.Error(ctx, "identity request failed", "error", err)
	return Failure(fallback)
}

// Logout signs out of the provider and resets the state to Idle.
func (c *Coordinator) Logout(ctx context.Context) error {
	err := c.provider.SignOut(ctx)
	c.set(Idle())
	return err
}

// Reset returns the state to Idle.
func (c *Coordinator) Reset() {
	c.set(Idle())
}

func (c *Coordinator) State() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) CurrentUser() *Identity {
	return c.provider.CurrentUser()
}

// Subscribe returns a channel that receives the current state and every
// later change until ctx is done. Unread states are replaced by newer ones.
func (c *Coordinator) Subscribe(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	ch <- c.state
	c.mu.Unlock()

	context.AfterFunc(ctx, func() {
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	})
	return ch
}

func (c *Coordinator) set(r Result) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = r
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- r
	}
	return r
}
