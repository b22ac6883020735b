package services

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/dmitrijs2005/mhst/internal/client/identity"
	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

const (
	msgSessionFailed = "Could not save session"
	// DefaultUserName is stored when the identity has no email.
	DefaultUserName = "User"
)

// SessionStore is the subset of session.Store used by AuthService.
type SessionStore interface {
	Save(ctx context.Context, userID int64, name, email string) error
	Current(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// AuthService signs users in and keeps the session store in step with the
// outcome.
//
// Remote operations go through the identity Coordinator; on success the
// identity is copied into the session. Local operations use the accounts
// stored by UserService and are used when no identity service is configured
// or it cannot be reached.
type AuthService struct {
	coord     *identity.Coordinator
	users     *UserService
	session   SessionStore
	localOnly bool
	log       logging.Logger
}

func NewAuthService(coord *identity.Coordinator, users *UserService, session SessionStore, localOnly bool, log logging.Logger) *AuthService {
	return &AuthService{
		coord:     coord,
		users:     users,
		session:   session,
		localOnly: localOnly,
		log:       log.With("module", "auth"),
	}
}

// LocalOnly reports whether remote sign-in is unavailable by configuration.
func (a *AuthService) LocalOnly() bool {
	return a.localOnly
}

func (a *AuthService) Coordinator() *identity.Coordinator {
	return a.coord
}

// Login signs in with the identity provider and stores the session.
func (a *AuthService) Login(ctx context.Context, email, password string) identity.Result {
	r := a.coord.Login(ctx, email, password)
	if !r.OK() {
		return r
	}
	return a.handOff(ctx, r, email)
}

// Register creates a provider account, stores the session and mirrors the
// account locally so LoginLocal works when the provider is unreachable.
func (a *AuthService) Register(ctx context.Context, email, password string) identity.Result {
	r := a.coord.Register(ctx, email, password)
	if !r.OK() {
		return r
	}

	local := a.users.RegisterUser(ctx, &models.User{
		Name:     NameFromEmail(email),
		Email:    email,
		Password: password,
	})
	if local.Status == RegistrationError {
		a.log.Warn(ctx, "local account mirror failed", "message", local.Message)
	}

	return a.handOff(ctx, r, email)
}

func (a *AuthService) handOff(ctx context.Context, r identity.Result, email string) identity.Result {
	if cur := a.coord.CurrentUser(); cur != nil && cur.Email != "" {
		email = cur.Email
	}

	if err := a.session.Save(ctx, SessionUserID(r.UserID), NameFromEmail(email), email); err != nil {
		a.log.Error(ctx, "session save failed", "error", err)
		return identity.Failure(msgSessionFailed)
	}
	return r
}

// LoginLocal checks the credentials against local accounts and stores the
// session on success.
func (a *AuthService) LoginLocal(ctx context.Context, email, password string) LoginResult {
	if msg := identity.Validate(email, password); msg != "" {
		return LoginResult{Status: LoginError, Message: msg}
	}

	r := a.users.LoginUser(ctx, email, password)
	if !r.OK() {
		return r
	}

	if err := a.session.Save(ctx, r.User.ID, r.User.Name, r.User.Email); err != nil {
		a.log.Error(ctx, "session save failed", "error", err)
		return LoginResult{Status: LoginError, Message: msgSessionFailed}
	}
	return r
}

// RegisterLocal creates a local account and stores the session on success.
func (a *AuthService) RegisterLocal(ctx context.Context, name, email, password string) RegistrationResult {
	if msg := identity.Validate(email, password); msg != "" {
		return RegistrationResult{Status: RegistrationError, Message: msg}
	}
	if strings.TrimSpace(name) == "" {
		name = NameFromEmail(email)
	}

	u := &models.User{Name: name, Email: email, Password: password}
	r := a.users.RegisterUser(ctx, u)
	if !r.OK() {
		return r
	}

	if err := a.session.Save(ctx, r.UserID, u.Name, u.Email); err != nil {
		a.log.Error(ctx, "session save failed", "error", err)
		return RegistrationResult{Status: RegistrationError, Message: msgSessionFailed}
	}
	return r
}

// Logout signs out of the provider and clears the session. The session is
// cleared even when the provider call fails.
func (a *AuthService) Logout(ctx context.Context) error {
	perr := a.coord.Logout(ctx)
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	if perr != nil {
		a.log.Warn(ctx, "provider sign out failed", "error", perr)
	}
	return nil
}

// Current returns the stored session or nil.
func (a *AuthService) Current(ctx context.Context) (*models.Session, error) {
	return a.session.Current(ctx)
}

// SessionUserID folds a provider user id into the non-negative int64 stored
// in the session (31-bit FNV-1a).
func SessionUserID(uid string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int64(h.Sum32() & 0x7fffffff)
}

// NameFromEmail returns the part of email before "@", or DefaultUserName
// when email is empty.
func NameFromEmail(email string) string {
	if email == "" {
		return DefaultUserName
	}
	name, _, _ := strings.Cut(email, "@")
	return name
}
