package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "MHST_"

func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	envString("GRPC_ADDR", &cfg.GRPCAddr)
	envString("DATABASE_DSN", &cfg.DatabaseDSN)
	envString("JWT_SECRET", &cfg.JWTSecret)
	envDuration("TOKEN_VALIDITY", &cfg.TokenValidity)
	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("LOG_FORMAT", &cfg.LogFormat)
	envString("SENTRY_DSN", &cfg.SentryDSN)
}

func envString(key string, dst *string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
	}
	*dst = d
}
