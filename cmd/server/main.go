package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erauner12/toolbridge-genai/internal/config"
	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/erauner12/toolbridge-genai/internal/httpapi"
	"github.com/erauner12/toolbridge-genai/internal/web"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

var (
	configPath  = flag.String("config", "", "Path to configuration file (JSON)")
	showVersion = flag.Bool("version", false, "Show version information")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("server version %s\n", version)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg, "toolbridge-genai")

	gateway := client.New(cfg.GatewayURL, cfg.GatewayTimeout.Std())

	srv := &httpapi.Server{
		Gateway: gateway,
		UI:      web.Handler(cfg.GatewayURL),
	}

	httpServer := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
		// No WriteTimeout: long generations are bounded by the gateway timeout instead
	}

	// Reachability is informational only; the proxy starts either way
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gateway.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("gateway", gateway.BaseURL()).Msg("gateway not reachable yet")
			return
		}
		log.Info().Str("gateway", gateway.BaseURL()).Msg("gateway reachable")
	}()

	go func() {
		log.Info().
			Str("version", version).
			Str("addr", cfg.ListenAddr).
			Str("gateway", cfg.GatewayURL).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("server stopped")
}

// loadConfig loads the configuration from file and environment, then applies CLI overrides
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnvironment()
	}
	if err != nil {
		return nil, err
	}

	if *debug {
		cfg.Debug = true
		if *logLevel == "info" {
			cfg.LogLevel = "debug"
		}
	}
	if *logLevel != "info" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
