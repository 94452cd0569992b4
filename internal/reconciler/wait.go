package reconciler

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/imamik/nifcloud-lb/internal/metrics"
	"github.com/imamik/nifcloud-lb/internal/util/retry"
)

// waitForPresent classifies t right away and then up to pollMaxAttempts
// more times, pollInterval apart, until it is present. The sleep is not
// interrupted by ctx.
func (r *Reconciler) waitForPresent(ctx context.Context, t Target, operation string) error {
	logger := logr.FromContextOrDiscard(ctx)
	last := StateError

	err := retry.Poll(func(attempt int) (bool, error) {
		metrics.RecordConvergencePoll(operation)

		state, err := Classify(ctx, r.api, t)
		if err != nil {
			return false, &PhaseError{Phase: PhaseDescribe, Err: err}
		}
		last = state
		logger.V(1).Info("waiting for load balancer", "operation", operation, "attempt", attempt, "state", state)
		return state == StatePresent, nil
	},
		retry.WithClock(r.clock),
		retry.WithInterval(r.pollInterval),
		retry.WithMaxRetries(r.pollMaxAttempts),
	)

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &ConvergenceTimeoutError{Operation: operation, Checks: exhausted.Checks, LastState: last}
	}
	return err
}
