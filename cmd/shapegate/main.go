// shapegate serves authorized shape streams proxied from the upstream sync
// origin, plus the equivalent REST fallback endpoints backed by postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/crestline/shapegate/internal/config"
	"github.com/crestline/shapegate/internal/logging"
	"github.com/crestline/shapegate/internal/metrics"
	"github.com/crestline/shapegate/internal/proxy"
	"github.com/crestline/shapegate/internal/server"
	"github.com/crestline/shapegate/internal/store"
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

	cfg, showVersion, err := loadConfig()
	if err != nil {
		return err
	}
	if showVersion {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		return nil
	}

	log := logging.New(cfg.Verbose)
	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := store.Connect(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	forwarder, err := proxy.NewForwarder(log, cfg.OriginURL, cfg.OriginSecret)
	if err != nil {
		return err
	}

	srv, err := server.New(log, store.NewPostgres(pool), forwarder, []byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("route registration failed: %w", err)
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})(srv.Router())

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: live shape streams stay open until the client
		// disconnects.
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("shape gateway listening", "address", cfg.ListenAddr, "origin", cfg.OriginURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on %s: %w", cfg.ListenAddr, err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func loadConfig() (config.Config, bool, error) {
	var (
		cfg         config.Config
		corsOrigins string
		showVersion bool
	)

	flag.StringVar(&cfg.ListenAddr, "listen-addr", config.Getenv("SHAPEGATE_LISTEN_ADDR", ":8090"), "HTTP listen address")
	flag.StringVar(&cfg.DatabaseURL, "database-url", config.Getenv("SHAPEGATE_DATABASE_URL", ""), "postgres connection url")
	flag.StringVar(&cfg.OriginURL, "origin-url", config.Getenv("SHAPEGATE_ORIGIN_URL", ""), "sync origin base url")
	flag.StringVar(&cfg.OriginSecret, "origin-secret", config.Getenv("SHAPEGATE_ORIGIN_SECRET", ""), "shared secret for the sync origin")
	flag.StringVar(&cfg.JWTSecret, "jwt-secret", config.Getenv("SHAPEGATE_JWT_SECRET", ""), "HS256 secret for bearer tokens")
	flag.StringVar(&corsOrigins, "cors-origins", config.Getenv("SHAPEGATE_CORS_ORIGINS", "http://localhost:5173"), "comma-separated allowed CORS origins")
	flag.BoolVar(&cfg.Verbose, "verbose", config.GetenvBool("SHAPEGATE_VERBOSE", false), "enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	cfg.CORSAllowedOrigins = strings.Split(corsOrigins, ",")

	if showVersion {
		return cfg, true, nil
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false, err
	}
	return cfg, false, nil
}
