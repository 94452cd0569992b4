package config

import (
	"testing"
	"time"
)

func clearTimeoutEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("NIFCLOUD_POLL_INTERVAL", "")
	t.Setenv("NIFCLOUD_POLL_MAX_ATTEMPTS", "")
	t.Setenv("NIFCLOUD_HTTP_TIMEOUT", "")
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	if timeouts.PollInterval != 60*time.Second {
		t.Errorf("Expected PollInterval default 60s, got %v", timeouts.PollInterval)
	}
	if timeouts.PollMaxAttempts != 10 {
		t.Errorf("Expected PollMaxAttempts default 10, got %d", timeouts.PollMaxAttempts)
	}
	if timeouts.HTTPRequest != 30*time.Second {
		t.Errorf("Expected HTTPRequest default 30s, got %v", timeouts.HTTPRequest)
	}
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	t.Setenv("NIFCLOUD_POLL_INTERVAL", "5s")
	t.Setenv("NIFCLOUD_POLL_MAX_ATTEMPTS", "3")
	t.Setenv("NIFCLOUD_HTTP_TIMEOUT", "1m")

	timeouts := LoadTimeouts()

	if timeouts.PollInterval != 5*time.Second {
		t.Errorf("Expected PollInterval 5s, got %v", timeouts.PollInterval)
	}
	if timeouts.PollMaxAttempts != 3 {
		t.Errorf("Expected PollMaxAttempts 3, got %d", timeouts.PollMaxAttempts)
	}
	if timeouts.HTTPRequest != time.Minute {
		t.Errorf("Expected HTTPRequest 1m, got %v", timeouts.HTTPRequest)
	}
}

func TestLoadTimeouts_InvalidEnvVars(t *testing.T) {
	t.Setenv("NIFCLOUD_POLL_INTERVAL", "soon")
	t.Setenv("NIFCLOUD_POLL_MAX_ATTEMPTS", "-1")
	t.Setenv("NIFCLOUD_HTTP_TIMEOUT", "-5s")

	timeouts := LoadTimeouts()

	if timeouts.PollInterval != 60*time.Second {
		t.Errorf("Expected PollInterval fallback 60s, got %v", timeouts.PollInterval)
	}
	if timeouts.PollMaxAttempts != 10 {
		t.Errorf("Expected PollMaxAttempts fallback 10, got %d", timeouts.PollMaxAttempts)
	}
	if timeouts.HTTPRequest != 30*time.Second {
		t.Errorf("Expected HTTPRequest fallback 30s, got %v", timeouts.HTTPRequest)
	}
}

func TestParseInt_Zero(t *testing.T) {
	t.Setenv("NIFCLOUD_POLL_MAX_ATTEMPTS", "0")

	if got := parseInt("NIFCLOUD_POLL_MAX_ATTEMPTS", 10); got != 0 {
		t.Errorf("Expected explicit 0 to be kept, got %d", got)
	}
}
