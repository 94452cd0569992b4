// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/metrics"
	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
	"github.com/imamik/nifcloud-lb/internal/reconciler"
)

// ErrChangesFailed is returned by Apply when the run reported a failure.
var ErrChangesFailed = errors.New("changes failed")

// ApplyOptions holds the flags of the apply command.
type ApplyOptions struct {
	ConfigPath  string
	Check       bool
	Output      string
	MetricsFile string
	Verbosity   int
}

// Reconciler interface for testing - matches reconciler.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context, t reconciler.Target) (*reconciler.Result, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads and validates the configuration file.
	loadConfigFile = config.Load

	// loadTimeouts reads poll and HTTP timing from the environment.
	loadTimeouts = config.LoadTimeouts

	// newAPIClient creates the NIFCLOUD API client.
	newAPIClient = func(cfg *config.Config, timeouts *config.Timeouts) reconciler.API {
		return nifcloud.NewClient(cfg.AccessKey, cfg.SecretAccessKey, cfg.Endpoint,
			nifcloud.WithRequestTimeout(timeouts.HTTPRequest))
	}

	// newReconciler creates the load balancer reconciler.
	newReconciler = func(api reconciler.API, timeouts *config.Timeouts, check bool) Reconciler {
		return reconciler.New(api,
			reconciler.WithPollInterval(timeouts.PollInterval),
			reconciler.WithPollMaxAttempts(timeouts.PollMaxAttempts),
			reconciler.WithCheckMode(check),
		)
	}

	// writeMetricsFile writes the metrics registry in textfile format.
	writeMetricsFile = metrics.WriteTextfile

	// stdout receives the rendered result, stderr the logs.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Apply converges the load balancer described by the configuration file.
//
// The workflow is:
//  1. Load and validate the configuration (no API call is made for an invalid file)
//  2. Create the API client and reconciler with timings from the environment
//  3. Reconcile and render the result in the requested format
//  4. Write the metrics textfile when requested
//
// A failed run is rendered like a successful one and then reported as
// ErrChangesFailed so the process exits non-zero.
func Apply(ctx context.Context, opts ApplyOptions) error {
	if err := validateOutput(opts.Output); err != nil {
		return err
	}

	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(opts.Verbosity)
	ctx = logr.NewContext(ctx, logger)
	logger.V(1).Info("loaded configuration", "path", opts.ConfigPath, "check", opts.Check)

	timeouts := loadTimeouts()
	rec := newReconciler(newAPIClient(cfg, timeouts), timeouts, opts.Check)

	result, _ := rec.Reconcile(ctx, reconciler.TargetFromConfig(cfg))

	if err := renderResult(stdout, opts.Output, result.Report()); err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		if err := writeMetricsFile(opts.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if result.Failed() {
		return fmt.Errorf("%w: %w", ErrChangesFailed, result.Err)
	}
	return nil
}

// newLogger returns a logger writing key/value lines to stderr.
func newLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(stderr, prefix, args)
			return
		}
		fmt.Fprintln(stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}
