package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/docmerge/merger"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Merge tool defaults.
	Coerce      merger.CoercionMode
	MaxOverlays int

	// Flatten tool defaults.
	FlattenLimit int
	MaxLimit     int

	// Input limits.
	MaxInputSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from DOCMERGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("DOCMERGE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("DOCMERGE_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("DOCMERGE_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("DOCMERGE_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("DOCMERGE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		Coerce:             envCoerce("DOCMERGE_COERCE", merger.CoerceFalsy),
		MaxOverlays:        envInt("DOCMERGE_MAX_OVERLAYS", 32),
		FlattenLimit:       envInt("DOCMERGE_FLATTEN_LIMIT", 100),
		MaxLimit:           envInt("DOCMERGE_MAX_LIMIT", 1000),
		MaxInputSize:       int64(envInt("DOCMERGE_MAX_INPUT_SIZE", 10*1024*1024)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envCoerce(key string, fallback merger.CoercionMode) merger.CoercionMode {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	mode, err := merger.ParseCoercionMode(v)
	if err != nil {
		slog.Warn("invalid coercion env var, using default", "key", key, "value", v, "default", fallback.String()) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return mode
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
