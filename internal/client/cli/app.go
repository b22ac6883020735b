package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mhst/internal/client/app"
	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/services"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

// Mode tells how the current session was established.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeLocal   Mode = "local"
)

type App struct {
	auth       *services.AuthService
	users      *services.UserService
	articles   *services.ArticleService
	therapists *services.TherapistService
	httpClient *http.Client
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer

	session *models.Session
	Mode    Mode
}

func NewApp(c *app.Container, in io.Reader, out io.Writer) *App {
	a := &App{
		auth:       c.Auth,
		users:      c.Users,
		articles:   c.Articles,
		therapists: c.Therapists,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        c.Log.With("module", "cli"),
		reader:     bufio.NewReader(in),
		out:        out,
	}
	if c.Auth.LocalOnly() {
		a.Mode = ModeLocal
	}
	return a
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Debug(context.Background(), "mode switched", "mode", mode)
	}
}

// getStatus renders the prompt status, e.g. "(alice online)".
func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		s = a.session.UserName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores a saved session, if any, and runs the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to mhst (type 'help' for commands)")

	cur, err := a.auth.Current(ctx)
	if err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	}
	if cur != nil {
		a.session = cur
		a.printf("Logged in as %s\n", cur.UserEmail)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
