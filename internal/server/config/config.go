// Package config handles configuration for the identity server, including
// defaults, environment variables, a JSON overlay and command-line flags.
package config

import "time"

// MemoryDSN selects the in-memory account store instead of PostgreSQL.
const MemoryDSN = "memory"

// Config holds runtime settings for the identity server.
//
// Fields:
//   - GRPCAddr: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or MemoryDSN.
//   - JWTSecret: HMAC secret for signing id tokens (HS256).
//   - TokenValidity: lifetime of issued id tokens.
//   - LogLevel / LogFormat / SentryDSN: logging bootstrap.
type Config struct {
	GRPCAddr      string
	DatabaseDSN   string
	JWTSecret     string
	TokenValidity time.Duration
	LogLevel      string
	LogFormat     string
	SentryDSN     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = MemoryDSN
	c.JWTSecret = "secretKey"
	c.TokenValidity = time.Hour
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// InMemory reports whether accounts are kept in process memory.
func (c *Config) InMemory() bool {
	return c.DatabaseDSN == MemoryDSN
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
