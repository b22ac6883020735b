package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mhst/internal/client/identity"
	"github.com/dmitrijs2005/mhst/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

func (a *App) readCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// Register creates an account. With an identity service the account is
// created there; in local-only mode it is stored locally and the user is
// asked for a display name as well.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	if a.auth.LocalOnly() {
		name, err := getSimpleText(a.reader, "Enter name (empty to use the email)", a.out)
		if err != nil {
			return err
		}
		r := a.auth.RegisterLocal(ctx, name, email, password)
		switch r.Status {
		case services.RegistrationSuccess:
			return a.loggedIn(ctx, ModeLocal)
		case services.RegistrationEmailExists:
			a.println("Email already registered")
		default:
			a.println(r.Message)
		}
		return nil
	}

	r := a.auth.Register(ctx, email, password)
	if !r.OK() {
		a.println(r.Message)
		return nil
	}
	return a.loggedIn(ctx, ModeOnline)
}

// Login authenticates with the identity service and falls back to local
// accounts when the service cannot be reached.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	if a.auth.LocalOnly() {
		return a.loginLocal(ctx, email, password, ModeLocal)
	}

	r := a.auth.Login(ctx, email, password)
	switch {
	case r.OK():
		return a.loggedIn(ctx, ModeOnline)
	case r.Code == identity.CodeNetworkRequestFailed:
		a.println("Identity service unavailable, trying local login...")
		return a.loginLocal(ctx, email, password, ModeOffline)
	default:
		a.println(r.Message)
		return nil
	}
}

func (a *App) loginLocal(ctx context.Context, email, password string, mode Mode) error {
	r := a.auth.LoginLocal(ctx, email, password)
	switch r.Status {
	case services.LoginSuccess:
		return a.loggedIn(ctx, mode)
	case services.LoginInvalidCredentials:
		a.println("Invalid email or password")
	default:
		a.println(r.Message)
	}
	return nil
}

func (a *App) loggedIn(ctx context.Context, mode Mode) error {
	cur, err := a.auth.Current(ctx)
	if err != nil {
		return err
	}
	a.session = cur
	a.setMode(mode)
	if cur != nil {
		a.printf("Welcome, %s!\n", cur.UserName)
	}
	return nil
}

// Logout signs out and clears the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.session = nil
	if !a.auth.LocalOnly() {
		a.setMode("")
	}
	a.println("Logged out")
	return nil
}

// Profile prints the logged-in user. Local accounts also show their
// registration date.
func (a *App) Profile(ctx context.Context) error {
	if a.session == nil {
		return errNotLoggedIn
	}

	a.printf("Name:  %s\n", a.session.UserName)
	a.printf("Email: %s\n", a.session.UserEmail)

	u, err := a.users.GetUserByID(ctx, a.session.UserID)
	if err != nil {
		return err
	}
	if u != nil && u.Email == a.session.UserEmail {
		a.printf("Member since: %s\n", u.RegisteredAt().Format("2006-01-02"))
	}
	return nil
}
