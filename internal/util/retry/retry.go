package retry

import (
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"
)

// Default polling parameters.
const (
	DefaultMaxRetries = 10
	DefaultInterval   = 60 * time.Second
)

// Config holds polling configuration.
type Config struct {
	MaxRetries int
	Interval   time.Duration
	Clock      clock.Clock
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// WithMaxRetries sets the number of checks made after the first one.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInterval sets the sleep between checks.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithClock sets the clock used for sleeping.
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}

// ExhaustedError is returned when the condition never held.
type ExhaustedError struct {
	Checks int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("condition not met after %d checks", e.Checks)
}

// Poll calls check with attempt 0, then sleeps Interval and calls it again
// with attempt 1..MaxRetries until it reports done. An error from check stops
// polling and is returned unchanged.
func Poll(check func(attempt int) (bool, error), opts ...Option) error {
	cfg := &Config{
		MaxRetries: DefaultMaxRetries,
		Interval:   DefaultInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewClock()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			cfg.Clock.Sleep(cfg.Interval)
		}
		done, err := check(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	return &ExhaustedError{Checks: cfg.MaxRetries + 1}
}
