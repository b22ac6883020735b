package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mhst/internal/flagx"
	"github.com/dmitrijs2005/mhst/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
type JsonConfig struct {
	GRPCAddr      string         `json:"grpc_addr"`
	DatabaseDSN   string         `json:"database_dsn"`
	JWTSecret     string         `json:"jwt_secret"`
	TokenValidity timex.Duration `json:"token_validity"`
	LogLevel      string         `json:"log_level"`
	LogFormat     string         `json:"log_format"`
	SentryDSN     string         `json:"sentry_dsn"`
}

// parseJson overlays config with the file named by -c or -config.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.GRPCAddr, c.GRPCAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.JWTSecret, c.JWTSecret)
	overlay(&config.TokenValidity, c.TokenValidity.Duration)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.SentryDSN, c.SentryDSN)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
