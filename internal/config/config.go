package config

import (
	"encoding/json"
	"net/url"
	"time"
)

// DefaultGatewayURL is the local address the tool gateway listens on
const DefaultGatewayURL = "http://localhost:8000"

// Config holds all configuration for the frontend server and the dev gateway
type Config struct {
	ListenAddr     string        `json:"listenAddr"`
	GatewayURL     string        `json:"gatewayUrl"`
	GatewayTimeout Duration      `json:"gatewayTimeout"` // 0 = no client timeout
	Env            string        `json:"env"`            // "dev" enables console logging
	Debug          bool          `json:"debug"`
	LogLevel       string        `json:"logLevel"`
	DevGateway     GatewayConfig `json:"devGateway"`
}

// GatewayConfig configures the local development gateway
type GatewayConfig struct {
	ListenAddr string `json:"listenAddr"`
	Model      string `json:"model"`
	APIKey     string `json:"apiKey,omitempty"`
	BaseURL    string `json:"baseUrl,omitempty"` // OpenAI-compatible endpoint; empty uses the provider default
}

// Duration is a time.Duration that reads JSON strings like "30s"
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return err
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// IsDev reports whether console-friendly logging should be used
func (c *Config) IsDev() bool {
	return c.Debug || c.Env == "dev"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrMissingListenAddr
	}

	if c.GatewayURL == "" {
		return ErrMissingGatewayURL
	}

	u, err := url.Parse(c.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidGatewayURL
	}

	if c.GatewayTimeout < 0 {
		return ErrNegativeTimeout
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":3000",
		GatewayURL: DefaultGatewayURL,
		Env:        "dev",
		Debug:      false,
		LogLevel:   "info",
		DevGateway: GatewayConfig{
			ListenAddr: ":8000",
			Model:      "gpt-4o-mini",
		},
	}
}
