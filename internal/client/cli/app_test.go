package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mhst/internal/client/app"
	"github.com/dmitrijs2005/mhst/internal/client/config"
	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, dataDir, endpoint string) *app.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = dataDir
	cfg.IdentityEndpoint = endpoint
	c, err := app.New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Store.WaitSeeded(context.Background()))
	return c
}

// stubPassword makes getPassword return the given passwords in order.
func stubPassword(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(io.Writer) (string, error) {
		pw := passwords[0]
		passwords = passwords[1:]
		return pw, nil
	}
}

func newTestApp(t *testing.T, c *app.Container, input string) (*App, *bytes.Buffer) {
	t.Helper()
	capturePrint(t)
	var out bytes.Buffer
	return NewApp(c, strings.NewReader(input), &out), &out
}

func TestApp_LocalRegisterLoginProfileLogout(t *testing.T) {
	c := newContainer(t, t.TempDir(), "")
	stubPassword(t, "secret1", "secret1", "wrong12")

	a, out := newTestApp(t, c, strings.Join([]string{
		"register", "a@x.com", "Alice",
		"profile",
		"logout",
		"login", "a@x.com",
		"login", "a@x.com",
		"exit",
	}, "\n")+"\n")
	assert.Equal(t, ModeLocal, a.Mode)

	a.Run(context.Background())

	s := out.String()
	assert.Contains(t, s, "Welcome, Alice!")
	assert.Contains(t, s, "Email: a@x.com")
	assert.Contains(t, s, "Member since:")
	assert.Contains(t, s, "Logged out")
	assert.Contains(t, s, "Invalid email or password")
	// a failed login keeps the earlier session
	assert.True(t, a.isLoggedIn())
}

func TestApp_SessionRestoredOnStart(t *testing.T) {
	c := newContainer(t, t.TempDir(), "")
	r := c.Auth.RegisterLocal(context.Background(), "Bob", "bob@x.com", "secret1")
	require.True(t, r.OK())

	a, out := newTestApp(t, c, "")
	a.Run(context.Background())

	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged in as bob@x.com")
	assert.Equal(t, "(Bob local)", a.getStatus())
}

func TestApp_RemoteLoginFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()

	local := newContainer(t, dir, "")
	require.True(t, local.Auth.RegisterLocal(context.Background(), "Carol", "carol@x.com", "secret1").OK())
	require.NoError(t, local.Auth.Logout(context.Background()))
	require.NoError(t, local.Close())

	c := newContainer(t, dir, "127.0.0.1:1")
	stubPassword(t, "secret1")

	a, out := newTestApp(t, c, "carol@x.com\n")
	require.NoError(t, a.Login(context.Background()))

	assert.Contains(t, out.String(), "Identity service unavailable, trying local login...")
	assert.Equal(t, ModeOffline, a.Mode)
	assert.True(t, a.isLoggedIn())
}

func TestApp_RemoteRegisterUnavailable(t *testing.T) {
	c := newContainer(t, t.TempDir(), "127.0.0.1:1")
	stubPassword(t, "secret1")

	a, out := newTestApp(t, c, "dan@x.com\n")
	require.NoError(t, a.Register(context.Background()))

	assert.Contains(t, out.String(), "Network error. Check your connection")
	assert.False(t, a.isLoggedIn())
}

func TestApp_ProfileRequiresLogin(t *testing.T) {
	c := newContainer(t, t.TempDir(), "")
	a, _ := newTestApp(t, c, "")
	require.ErrorIs(t, a.Profile(context.Background()), errNotLoggedIn)
}

func TestApp_ArticlesAndCategories(t *testing.T) {
	c := newContainer(t, t.TempDir(), "")
	a, out := newTestApp(t, c, "")
	ctx := context.Background()

	require.NoError(t, a.Articles(ctx, ""))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "#6 [ADHD]"))
	assert.True(t, strings.HasPrefix(lines[5], "#1 [Anxiety]"))

	out.Reset()
	require.NoError(t, a.Articles(ctx, "BPD"))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))

	out.Reset()
	require.NoError(t, a.Articles(ctx, "Nothing"))
	assert.Equal(t, "No articles\n", out.String())

	out.Reset()
	require.NoError(t, a.Categories(ctx))
	assert.Equal(t, "All, ADHD, Anxiety, BPD, Depression, OCD, Schizophrenia\n", out.String())

	out.Reset()
	require.NoError(t, a.Article(ctx, "1"))
	assert.True(t, strings.HasPrefix(out.String(), "Anxiety is Anxieting\n[Anxiety]"))

	out.Reset()
	require.NoError(t, a.Article(ctx, "99"))
	assert.Equal(t, "Article not found\n", out.String())

	require.Error(t, a.Article(ctx, "x"))
	require.Error(t, a.Article(ctx, "-1"))
}

func TestApp_TherapistsAndPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("JPEGDATA"))
	}))
	defer srv.Close()

	c := newContainer(t, t.TempDir(), "")
	ctx := context.Background()
	photo := srv.URL + "/z.jpg"
	id, err := c.Therapists.Insert(ctx, &models.Therapist{Name: "Dr. Zed", Specialization: "Sleep", ImageURL: &photo})
	require.NoError(t, err)

	a, out := newTestApp(t, c, "")

	require.NoError(t, a.Therapists(ctx))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Dr. Amina Hassan")
	assert.Contains(t, lines[4], "Dr. Zed - Sleep")

	out.Reset()
	require.NoError(t, a.Therapist(ctx, "1"))
	assert.Contains(t, out.String(), "Phone:")
	assert.NotContains(t, out.String(), "Photo:")

	out.Reset()
	require.NoError(t, a.Therapist(ctx, "42"))
	assert.Equal(t, "Therapist not found\n", out.String())

	out.Reset()
	require.NoError(t, a.Photo(ctx, "1", filepath.Join(t.TempDir(), "none.jpg")))
	assert.Equal(t, "No downloadable photo\n", out.String())

	dst := filepath.Join(t.TempDir(), "zed.jpg")
	require.NoError(t, a.Photo(ctx, strconv.FormatInt(id, 10), dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", string(data))
}
