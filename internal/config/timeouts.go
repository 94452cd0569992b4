package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the polling and HTTP timing knobs.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval    time.Duration // Sleep between convergence checks
	PollMaxAttempts int           // Convergence checks after the first one
	HTTPRequest     time.Duration // Bound on a single API round trip
}

// LoadTimeouts loads timing configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - NIFCLOUD_POLL_INTERVAL (default: 60s)
//   - NIFCLOUD_POLL_MAX_ATTEMPTS (default: 10)
//   - NIFCLOUD_HTTP_TIMEOUT (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:    parseDuration("NIFCLOUD_POLL_INTERVAL", 60*time.Second),
		PollMaxAttempts: parseInt("NIFCLOUD_POLL_MAX_ATTEMPTS", 10),
		HTTPRequest:     parseDuration("NIFCLOUD_HTTP_TIMEOUT", 30*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
