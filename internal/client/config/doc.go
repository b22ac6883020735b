// Package config loads runtime configuration for the mhst client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. MHST_* environment variables, optionally from a .env file.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   identity service host:port (empty: local-only mode)
//	-d string   data directory
//	-l string   log level
//	-t int      identity call timeout (seconds)
//
// # JSON schema
//
//	{
//	  "data_dir": "data",
//	  "identity_endpoint": "127.0.0.1:50051",
//	  "identity_timeout": "10s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "sentry_dsn": "",
//	  "media_bucket": "mhst",
//	  "media_region": "us-east-1",
//	  "media_endpoint": "http://127.0.0.1:9000",
//	  "media_access_key": "minioadmin",
//	  "media_secret_key": "minioadmin",
//	  "media_url_expiry": "15m"
//	}
package config
