package config

import "time"

// TimeoutConfig holds timeout settings for the HTTP surface.
type TimeoutConfig struct {
	// ReadTimeout bounds reading a request, body included. Default: 15s
	ReadTimeout time.Duration

	// IdleTimeout bounds keep-alive connections between requests. Default: 120s
	IdleTimeout time.Duration

	// RequestTimeout is applied by the router to each handler. Default: 60s
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		ReadTimeout:     15 * time.Second,
		IdleTimeout:     120 * time.Second,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// global instance that can be set at startup
var globalTimeouts = DefaultTimeoutConfig()

// SetGlobalTimeouts sets the global timeout configuration
func SetGlobalTimeouts(cfg *TimeoutConfig) {
	globalTimeouts = cfg
}

// GetTimeouts returns the global timeout configuration
func GetTimeouts() *TimeoutConfig {
	return globalTimeouts
}
