package reconciler

import (
	"errors"
	"fmt"

	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
)

// Phase names a step of a run.
type Phase string

// Phases reported in PhaseError.
const (
	PhaseDescribe     Phase = "describe"
	PhaseCreate       Phase = "create"
	PhaseRegisterPort Phase = "register-port"
	PhaseFilterSync   Phase = "filter-sync"
	PhaseInstanceSync Phase = "instance-sync"
)

// PhaseError wraps the fatal error of a run with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("changes failed (%s): %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// ConvergenceTimeoutError means the listener was not reported present
// within the polling budget after a successful mutating call.
type ConvergenceTimeoutError struct {
	Operation string
	Checks    int
	LastState State
}

func (e *ConvergenceTimeoutError) Error() string {
	return fmt.Sprintf("%s: load balancer not present after %d checks (last state %s)", e.Operation, e.Checks, e.LastState)
}

// PhaseOf returns the phase recorded in err, or "" when err carries none.
func PhaseOf(err error) Phase {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}

// apiErrorOf returns the *nifcloud.APIError in err's chain, if any.
func apiErrorOf(err error) *nifcloud.APIError {
	var apiErr *nifcloud.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
