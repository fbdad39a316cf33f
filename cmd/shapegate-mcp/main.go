// shapegate-mcp exposes the shape gateway's REST fallback endpoints as MCP
// tools over streamable HTTP. It authenticates to the gateway with a single
// bearer token, so every tool call is authorized under that identity.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/crestline/shapegate/internal/config"
	"github.com/crestline/shapegate/internal/logging"
	"github.com/crestline/shapegate/internal/mcpgateway"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		gatewayURL  string
		token       string
		listenAddr  string
		verbose     bool
		showVersion bool
	)
	flag.StringVar(&gatewayURL, "gateway-url", config.Getenv("SHAPEGATE_MCP_GATEWAY_URL", "http://localhost:8090"), "base url of the shape gateway")
	flag.StringVar(&token, "token", config.Getenv("SHAPEGATE_MCP_TOKEN", ""), "bearer token for gateway requests")
	flag.StringVar(&listenAddr, "listen-addr", config.Getenv("SHAPEGATE_MCP_LISTEN_ADDR", ":8091"), "HTTP listen address")
	flag.BoolVar(&verbose, "verbose", config.GetenvBool("SHAPEGATE_MCP_VERBOSE", false), "enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		return nil
	}

	log := logging.New(verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := mcpgateway.New(mcpgateway.Config{
		Logger:     log,
		GatewayURL: gatewayURL,
		Token:      token,
		Version:    version,
		ListenAddr: listenAddr,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
