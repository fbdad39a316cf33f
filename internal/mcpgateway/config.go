// Package mcpgateway exposes the gateway's REST fallback surface as MCP
// tools. It is an ordinary HTTP client of the gateway: every tool call
// turns into an authenticated GET against a fallback endpoint, so the
// gateway's scope policy applies unchanged.
package mcpgateway

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultListenAddr        = ":8091"
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
	defaultRequestTimeout    = 30 * time.Second
)

type Config struct {
	Logger *slog.Logger

	// GatewayURL is the base URL of the shape gateway's REST surface.
	GatewayURL string
	// Token is the bearer token forwarded on every gateway request; it
	// carries the identity the scope policy authorizes against.
	Token string

	Version           string
	ListenAddr        string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	RequestTimeout    time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("gateway url is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	return nil
}
