package config

import "errors"

var (
	// ErrMissingGatewayURL indicates that the gateway address is not configured
	ErrMissingGatewayURL = errors.New("gatewayUrl is required in configuration")

	// ErrInvalidGatewayURL indicates that the gateway address is not an absolute http(s) URL
	ErrInvalidGatewayURL = errors.New("gatewayUrl must be an absolute http or https URL")

	// ErrMissingListenAddr indicates that no listen address is configured
	ErrMissingListenAddr = errors.New("listenAddr is required in configuration")

	// ErrNegativeTimeout indicates a negative gateway timeout
	ErrNegativeTimeout = errors.New("gatewayTimeout must not be negative")

	// ErrConfigFileNotFound indicates that the config file was not found
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFormat indicates that the config file has invalid JSON
	ErrInvalidConfigFormat = errors.New("invalid configuration file format")
)
