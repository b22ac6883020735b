package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "MHST_"

// parseEnv overlays cfg with MHST_* environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	envString("DATA_DIR", &cfg.DataDir)
	envString("DATABASE_FILE", &cfg.DatabaseFile)
	envString("SESSION_FILE", &cfg.SessionFile)
	envString("IDENTITY_ENDPOINT", &cfg.IdentityEndpoint)
	envDuration("IDENTITY_TIMEOUT", &cfg.IdentityTimeout)
	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("LOG_FORMAT", &cfg.LogFormat)
	envString("SENTRY_DSN", &cfg.SentryDSN)
	envString("MEDIA_BUCKET", &cfg.MediaBucket)
	envString("MEDIA_REGION", &cfg.MediaRegion)
	envString("MEDIA_ENDPOINT", &cfg.MediaEndpoint)
	envString("MEDIA_ACCESS_KEY", &cfg.MediaAccessKey)
	envString("MEDIA_SECRET_KEY", &cfg.MediaSecretKey)
	envDuration("MEDIA_URL_EXPIRY", &cfg.MediaURLExpiry)
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
