// Package config loads the gateway configuration from flags and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultListenAddr      = ":8090"
	defaultShutdownTimeout = 30 * time.Second
)

// Config is the static gateway configuration. Validate is called once at
// startup; request handlers treat the values as read-only.
type Config struct {
	ListenAddr string

	// DatabaseURL is the postgres connection string for the fallback store
	// and the scope policy's access checks.
	DatabaseURL string

	// OriginURL is the base URL of the upstream sync origin; OriginSecret,
	// when set, is attached to every upstream request.
	OriginURL    string
	OriginSecret string

	// JWTSecret verifies the bearer tokens carrying the authenticated user
	// identity.
	JWTSecret string

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	Verbose            bool
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.OriginURL == "" {
		return fmt.Errorf("origin url is required")
	}
	if _, err := url.Parse(c.OriginURL); err != nil {
		return fmt.Errorf("invalid origin url: %w", err)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	return nil
}

// Getenv returns the env value or def when unset or empty.
func Getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// GetenvBool parses a boolean env value, falling back to def.
func GetenvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
