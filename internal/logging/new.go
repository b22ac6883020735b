package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options configures the process logger.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	SentryDSN string
	Output    io.Writer
}

// sentryInit is a seam for tests.
var sentryInit = sentry.Init

// New builds the process logger. Records at Error level are additionally
// forwarded to Sentry when a DSN is configured; a Sentry init failure is
// reported on the returned logger and does not fail startup.
func New(opts Options) (*SlogLogger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	ho := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		base = slog.NewTextHandler(out, ho)
	case "json":
		base = slog.NewJSONHandler(out, ho)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	flush := func() {}
	handler := base
	var sentryErr error
	if opts.SentryDSN != "" {
		sentryErr = sentryInit(sentry.ClientOptions{Dsn: opts.SentryDSN})
		if sentryErr == nil {
			handler = slogmulti.Fanout(base, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	l := NewSlogLogger(slog.New(handler))
	if sentryErr != nil {
		l.l.Warn("sentry disabled", "error", sentryErr)
	}
	return l, flush, nil
}

// ParseLevel maps a config string to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
