package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erauner12/toolbridge-genai/internal/config"
	"github.com/erauner12/toolbridge-genai/internal/gateway/catalog"
	"github.com/erauner12/toolbridge-genai/internal/gateway/llm"
	"github.com/erauner12/toolbridge-genai/internal/gateway/server"
	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

var (
	configPath  = flag.String("config", "", "Path to configuration file (JSON)")
	showVersion = flag.Bool("version", false, "Show version information")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	listenAddr  = flag.String("addr", "", "Listen address (overrides config)")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("devgateway version %s\n", version)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg, "toolbridge-genai-gateway")

	log.Info().
		Str("version", version).
		Str("addr", cfg.DevGateway.ListenAddr).
		Str("model", cfg.DevGateway.Model).
		Bool("debug", cfg.Debug).
		Msg("Starting dev gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("dev gateway failed")
		os.Exit(1)
	}

	log.Info().Msg("dev gateway stopped gracefully")
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
	if *listenAddr != "" {
		cfg.DevGateway.ListenAddr = *listenAddr
	}

	if cfg.DevGateway.ListenAddr == "" {
		return nil, config.ErrMissingListenAddr
	}

	return cfg, nil
}

// newGenerator builds the model client. When it cannot be built the gateway
// still serves, and the generative tools answer UNAVAILABLE.
func newGenerator(cfg *config.Config) tools.Generator {
	gen, err := llm.New(llm.Options{
		Model:   cfg.DevGateway.Model,
		APIKey:  cfg.DevGateway.APIKey,
		BaseURL: cfg.DevGateway.BaseURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("generative model not configured; generative tools disabled")
		return tools.UnavailableGenerator{Reason: err.Error()}
	}
	return gen
}

// run serves the tool registry until ctx is cancelled
func run(ctx context.Context, cfg *config.Config) error {
	registry := tools.NewRegistry()
	tools.RegisterAllTools(registry, newGenerator(cfg))

	resources := catalog.NewResources(catalog.AppInfo{
		Name:        "toolbridge-genai",
		Version:     version,
		Environment: cfg.Env,
	}, catalog.DemoProfiles())

	httpServer := &http.Server{
		Addr:        cfg.DevGateway.ListenAddr,
		Handler:     server.New(registry, resources, catalog.NewPrompts()).Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Int("tools", len(registry.List())).Msg("serving tools")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down dev gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
