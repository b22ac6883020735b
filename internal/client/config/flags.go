package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mhst/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   identity service host:port ("" for local-only mode)
//	-d string   data directory
//	-l string   log level
//	-t int      identity call timeout in seconds
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other layers
// (-c/-config) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityEndpoint, "a", cfg.IdentityEndpoint, "identity service address and port")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.IdentityTimeout.Seconds()), "identity call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.IdentityTimeout = time.Duration(*timeout) * time.Second
}
