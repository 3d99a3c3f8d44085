// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
)

// Config captures server-level configuration.
type Config struct {
	Addr string

	// DatabaseURL selects the PostgreSQL store when set.
	DatabaseURL string
	// UpstreamURL selects the remote REST store when set; the process then
	// acts purely as a data-shaping front over the upstream service.
	UpstreamURL string
	// RedisURL enables the redis-backed document dedup index when set.
	RedisURL string

	// MaxUploadBytes caps multipart document uploads.
	MaxUploadBytes int64
	// DefaultPageSize is the table view page size when the caller sends none.
	DefaultPageSize int
}

// FromEnv reads configuration with development defaults. With neither
// DATABASE_URL nor UPSTREAM_URL set the server runs on the in-memory store.
func FromEnv() Config {
	return Config{
		Addr:            envOr("FRA_GIS_ADDR", ":5001"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		UpstreamURL:     os.Getenv("UPSTREAM_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		MaxUploadBytes:  envInt64("FRA_GIS_MAX_UPLOAD_BYTES", 16<<20),
		DefaultPageSize: envInt("FRA_GIS_PAGE_SIZE", 10),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
