package config

import (
	"path/filepath"
	"time"
)

// Config holds runtime settings for the mhst client.
type Config struct {
	// DataDir holds the database and session files.
	DataDir      string
	DatabaseFile string
	SessionFile  string

	// IdentityEndpoint is the host:port of the identity service. Empty means
	// local-only mode.
	IdentityEndpoint string
	IdentityTimeout  time.Duration

	LogLevel  string
	LogFormat string
	SentryDSN string

	MediaBucket    string
	MediaRegion    string
	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaURLExpiry time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.DatabaseFile = "mhst_database.db"
	c.SessionFile = "mhst_session.db"
	c.IdentityEndpoint = ""
	c.IdentityTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MediaRegion = "us-east-1"
	c.MediaURLExpiry = 15 * time.Minute
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, c.SessionFile)
}

// LocalOnly reports whether no identity service is configured.
func (c *Config) LocalOnly() bool {
	return c.IdentityEndpoint == ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
