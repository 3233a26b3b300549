package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load loads configuration from a file path and applies environment variable overrides.
// Validation is deferred to allow CLI flag overrides to be applied first.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	return cfg, nil
}

// LoadFromEnvironment creates a configuration using only environment variables (and .env)
func LoadFromEnvironment() (*Config, error) {
	return Load("")
}

// loadDotEnv reads .env into the process environment; existing variables win
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
}

// loadFromFile decodes a JSON file over the defaults
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigFileNotFound
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfigFormat, err)
	}

	return nil
}

// applyEnvironmentOverrides applies configuration from environment variables
func applyEnvironmentOverrides(cfg *Config) {
	if addr := os.Getenv("APP_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	if gatewayURL := os.Getenv("APP_GATEWAY_URL"); gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}

	if timeout := os.Getenv("APP_GATEWAY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.GatewayTimeout = Duration(d)
		} else {
			log.Warn().Str("value", timeout).Msg("ignoring invalid APP_GATEWAY_TIMEOUT")
		}
	}

	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
	}

	if debug := os.Getenv("APP_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}

	if logLevel := os.Getenv("APP_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Dev gateway
	if addr := os.Getenv("GATEWAY_LISTEN_ADDR"); addr != "" {
		cfg.DevGateway.ListenAddr = addr
	}
	if model := os.Getenv("GATEWAY_MODEL"); model != "" {
		cfg.DevGateway.Model = model
	}
	if apiKey := os.Getenv("GATEWAY_API_KEY"); apiKey != "" {
		cfg.DevGateway.APIKey = apiKey
	}
	if baseURL := os.Getenv("GATEWAY_BASE_URL"); baseURL != "" {
		cfg.DevGateway.BaseURL = baseURL
	}
}
