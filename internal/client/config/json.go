package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mhst/internal/flagx"
	"github.com/dmitrijs2005/mhst/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// timex.Duration so they can be written as "3s" or as integer nanoseconds.
type JsonConfig struct {
	DataDir          string         `json:"data_dir"`
	DatabaseFile     string         `json:"database_file"`
	SessionFile      string         `json:"session_file"`
	IdentityEndpoint string         `json:"identity_endpoint"`
	IdentityTimeout  timex.Duration `json:"identity_timeout"`
	LogLevel         string         `json:"log_level"`
	LogFormat        string         `json:"log_format"`
	SentryDSN        string         `json:"sentry_dsn"`
	MediaBucket      string         `json:"media_bucket"`
	MediaRegion      string         `json:"media_region"`
	MediaEndpoint    string         `json:"media_endpoint"`
	MediaAccessKey   string         `json:"media_access_key"`
	MediaSecretKey   string         `json:"media_secret_key"`
	MediaURLExpiry   timex.Duration `json:"media_url_expiry"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// -c or -config. Missing fields keep their current values. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.DatabaseFile, jc.DatabaseFile)
	overlay(&cfg.SessionFile, jc.SessionFile)
	overlay(&cfg.IdentityEndpoint, jc.IdentityEndpoint)
	overlay(&cfg.IdentityTimeout, jc.IdentityTimeout.Duration)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.SentryDSN, jc.SentryDSN)
	overlay(&cfg.MediaBucket, jc.MediaBucket)
	overlay(&cfg.MediaRegion, jc.MediaRegion)
	overlay(&cfg.MediaEndpoint, jc.MediaEndpoint)
	overlay(&cfg.MediaAccessKey, jc.MediaAccessKey)
	overlay(&cfg.MediaSecretKey, jc.MediaSecretKey)
	overlay(&cfg.MediaURLExpiry, jc.MediaURLExpiry.Duration)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
