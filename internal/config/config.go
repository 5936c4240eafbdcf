// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once in main and
// passed by value into the constructors that need it; nothing reads the
// environment after startup.
type Config struct {
	// Analytics backend.
	ServerURL      string
	APIKey         string // session-level credential; may be empty
	RequestTimeout time.Duration

	// Caches.
	AppCacheTTL    time.Duration
	PluginCacheTTL time.Duration

	// Permissions. DefaultPermissions applies to every tool category unless
	// a per-category override is present; an empty default means full
	// access, an explicit override of "" or "NONE" means no access.
	DefaultPermissions  string
	CategoryPermissions map[string]string

	// Transport: "stdio" or "http".
	Transport string
	Port      int

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	LogLevel string
}

// categoryPermPrefix is scanned for per-category overrides, e.g.
// STATBRIDGE_PERMISSIONS_ALERTS=R overrides the "alerts" category.
const categoryPermPrefix = "STATBRIDGE_PERMISSIONS_"

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		ServerURL:           envStr("STATBRIDGE_SERVER_URL", "http://localhost:8080"),
		APIKey:              envStr("STATBRIDGE_API_KEY", ""),
		RequestTimeout:      envDuration("STATBRIDGE_REQUEST_TIMEOUT", 30*time.Second),
		AppCacheTTL:         envDuration("STATBRIDGE_APP_CACHE_TTL", 5*time.Minute),
		PluginCacheTTL:      envDuration("STATBRIDGE_PLUGIN_CACHE_TTL", 5*time.Minute),
		DefaultPermissions:  envStr("STATBRIDGE_PERMISSIONS", ""),
		CategoryPermissions: loadCategoryPermissions(os.Environ()),
		Transport:           envStr("STATBRIDGE_TRANSPORT", "stdio"),
		Port:                envInt("STATBRIDGE_PORT", 8080),
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:        envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:         envStr("OTEL_SERVICE_NAME", "statbridge"),
		LogLevel:            envStr("STATBRIDGE_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: STATBRIDGE_SERVER_URL is required")
	}
	if c.Transport != "stdio" && c.Transport != "http" {
		return fmt.Errorf("config: STATBRIDGE_TRANSPORT must be \"stdio\" or \"http\", got %q", c.Transport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: STATBRIDGE_REQUEST_TIMEOUT must be positive")
	}
	if c.AppCacheTTL <= 0 || c.PluginCacheTTL <= 0 {
		return fmt.Errorf("config: cache TTLs must be positive")
	}
	return nil
}

// loadCategoryPermissions extracts per-category permission overrides from
// the environment. Category names are lowercased; the override value is
// kept verbatim, so an explicitly empty value is a real "no access"
// override, not an absent one.
func loadCategoryPermissions(environ []string) map[string]string {
	overrides := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		category, ok := strings.CutPrefix(key, categoryPermPrefix)
		if !ok || category == "" {
			continue
		}
		overrides[strings.ToLower(category)] = value
	}
	return overrides
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
