package reconciler

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/go-logr/logr"

	"github.com/imamik/nifcloud-lb/internal/metrics"
	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
	"github.com/imamik/nifcloud-lb/internal/util/retry"
)

// API is the subset of the NIFCLOUD API the reconciler uses.
// *nifcloud.Client implements it.
type API interface {
	DescribeLoadBalancers(ctx context.Context, name string, port, instancePort int) (*nifcloud.Response, error)
	CreateLoadBalancer(ctx context.Context, in nifcloud.CreateLoadBalancerInput) (*nifcloud.Response, error)
	RegisterPortWithLoadBalancer(ctx context.Context, name string, l nifcloud.Listener) (*nifcloud.Response, error)
	SetFilterForLoadBalancer(ctx context.Context, in nifcloud.SetFilterInput) (*nifcloud.Response, error)
	RegisterInstancesWithLoadBalancer(ctx context.Context, in nifcloud.InstancesInput) (*nifcloud.Response, error)
	DeregisterInstancesFromLoadBalancer(ctx context.Context, in nifcloud.InstancesInput) (*nifcloud.Response, error)
}

var _ API = (*nifcloud.Client)(nil)

// Reconciler brings a load balancer listener to its Target.
type Reconciler struct {
	api             API
	clock           clock.Clock
	pollInterval    time.Duration
	pollMaxAttempts int
	checkMode       bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock sets the clock used for poll sleeps and run durations.
func WithClock(clk clock.Clock) Option {
	return func(r *Reconciler) {
		r.clock = clk
	}
}

// WithPollInterval sets the sleep between convergence checks.
func WithPollInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		r.pollInterval = d
	}
}

// WithPollMaxAttempts sets the number of convergence checks after the first one.
func WithPollMaxAttempts(n int) Option {
	return func(r *Reconciler) {
		r.pollMaxAttempts = n
	}
}

// WithCheckMode disables every mutating call. Changed then reports whether a
// real run would have changed anything.
func WithCheckMode(enabled bool) Option {
	return func(r *Reconciler) {
		r.checkMode = enabled
	}
}

// New creates a Reconciler using api.
func New(api API, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:             api,
		clock:           clock.NewClock(),
		pollInterval:    retry.DefaultInterval,
		pollMaxAttempts: retry.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run holds the state of a single Reconcile call.
type run struct {
	target Target
	result *Result
	logger logr.Logger
}

// Reconcile runs classify, mutate, wait and sync for t. The returned Result
// is never nil; its Err is also returned as the error.
func (r *Reconciler) Reconcile(ctx context.Context, t Target) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues(
		"loadBalancer", t.Name, "port", t.Port, "instancePort", t.InstancePort)
	ctx = logr.NewContext(ctx, logger)
	start := r.clock.Now()

	ru := &run{
		target: t,
		result: &Result{LoadBalancerName: t.Name},
		logger: logger,
	}

	err := r.reconcile(ctx, ru)
	if err != nil {
		ru.result.Err = err
		ru.result.State = StateError
		logger.Error(err, "reconciliation failed")
	}

	outcome := "unchanged"
	switch {
	case err != nil:
		outcome = "error"
	case ru.result.Changed:
		outcome = "changed"
	}
	metrics.RecordReconcile(t.Name, outcome, r.clock.Since(start).Seconds())
	metrics.RecordObservedState(t.Name, ru.result.State.String())
	logger.Info("reconciliation finished", "changed", ru.result.Changed, "state", ru.result.State)

	return ru.result, err
}

func (r *Reconciler) reconcile(ctx context.Context, ru *run) error {
	t := ru.target

	state, err := Classify(ctx, r.api, t)
	if err != nil {
		return &PhaseError{Phase: PhaseDescribe, Err: err}
	}
	ru.result.State = state
	ru.logger.Info("classified load balancer", "state", state)

	switch state {
	case StateAbsent:
		if r.checkMode {
			ru.result.Changed = true
			return nil
		}
		if err := r.createLoadBalancer(ctx, ru); err != nil {
			return err
		}
	case StatePortNotFound:
		if r.checkMode {
			ru.result.Changed = true
			return nil
		}
		if err := r.registerPort(ctx, ru); err != nil {
			return err
		}
	}

	desc, err := r.describe(ctx, t)
	if err != nil {
		return &PhaseError{Phase: PhaseFilterSync, Err: err}
	}

	if err := r.syncFilter(ctx, ru, desc); err != nil {
		return err
	}

	if t.ManageInstances {
		if err := r.syncInstances(ctx, ru, desc); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reconciler) createLoadBalancer(ctx context.Context, ru *run) error {
	t := ru.target
	ru.logger.Info("creating load balancer")

	resp, err := r.api.CreateLoadBalancer(ctx, nifcloud.CreateLoadBalancerInput{
		Name:           t.Name,
		Listener:       t.Listener(),
		NetworkVolume:  t.NetworkVolume,
		IPVersion:      t.IPVersion,
		AccountingType: t.AccountingType,
		PolicyType:     t.PolicyType,
	})
	if err := mutationError(resp, err); err != nil {
		return &PhaseError{Phase: PhaseCreate, Err: err}
	}

	return r.converge(ctx, ru, nifcloud.ActionCreateLoadBalancer, PhaseCreate)
}

func (r *Reconciler) registerPort(ctx context.Context, ru *run) error {
	t := ru.target
	ru.logger.Info("registering port")

	resp, err := r.api.RegisterPortWithLoadBalancer(ctx, t.Name, t.Listener())
	if err := mutationError(resp, err); err != nil {
		return &PhaseError{Phase: PhaseRegisterPort, Err: err}
	}

	return r.converge(ctx, ru, nifcloud.ActionRegisterPortWithLoadBalancer, PhaseRegisterPort)
}

// converge waits for the listener after a successful mutating call.
func (r *Reconciler) converge(ctx context.Context, ru *run, operation string, phase Phase) error {
	if err := r.waitForPresent(ctx, ru.target, operation); err != nil {
		if PhaseOf(err) != "" {
			return err
		}
		return &PhaseError{Phase: phase, Err: err}
	}
	ru.result.State = StatePresent
	ru.result.Changed = true
	return nil
}

func (r *Reconciler) describe(ctx context.Context, t Target) (*nifcloud.LoadBalancerDescription, error) {
	resp, err := r.api.DescribeLoadBalancers(ctx, t.Name, t.Port, t.InstancePort)
	if err != nil {
		return nil, err
	}
	return nifcloud.ParseLoadBalancerDescription(resp, t.Name)
}

func (r *Reconciler) syncFilter(ctx context.Context, ru *run, desc *nifcloud.LoadBalancerDescription) error {
	t := ru.target
	diff := DiffFilter(t.FilterIPAddresses, t.FilterType, desc.FilterIPAddresses, desc.FilterType, t.PurgeFilter)
	if diff.NoOp() {
		ru.logger.V(1).Info("filter in sync")
		return nil
	}

	ru.logger.Info("synchronizing filter",
		"filterType", diff.FilterType, "purge", diff.Purge, "merge", diff.Merge)
	if r.checkMode {
		ru.result.Changed = true
		return nil
	}

	resp, err := r.api.SetFilterForLoadBalancer(ctx, nifcloud.SetFilterInput{
		Name:         t.Name,
		Port:         t.Port,
		InstancePort: t.InstancePort,
		FilterType:   diff.FilterType,
		Entries:      diff.Entries(),
	})
	if err := mutationError(resp, err); err != nil {
		return &PhaseError{Phase: PhaseFilterSync, Err: err}
	}

	ru.result.Changed = true
	return nil
}

func (r *Reconciler) syncInstances(ctx context.Context, ru *run, desc *nifcloud.LoadBalancerDescription) error {
	t := ru.target
	diff := DiffInstances(t.InstanceIDs, desc.InstanceIDs, t.PurgeInstances)
	if diff.NoOp() {
		ru.logger.V(1).Info("instances in sync")
		return nil
	}

	ru.logger.Info("synchronizing instances", "register", diff.Register, "deregister", diff.Deregister)
	if r.checkMode {
		ru.result.Changed = true
		return nil
	}

	if len(diff.Register) > 0 {
		resp, err := r.api.RegisterInstancesWithLoadBalancer(ctx, instancesInput(t, diff.Register))
		if err := mutationError(resp, err); err != nil {
			return &PhaseError{Phase: PhaseInstanceSync, Err: err}
		}
		ru.result.Changed = true
	}

	if len(diff.Deregister) > 0 {
		resp, err := r.api.DeregisterInstancesFromLoadBalancer(ctx, instancesInput(t, diff.Deregister))
		if err := mutationError(resp, err); err != nil {
			return &PhaseError{Phase: PhaseInstanceSync, Err: err}
		}
		ru.result.Changed = true
	}

	return nil
}

func instancesInput(t Target, ids []string) nifcloud.InstancesInput {
	return nifcloud.InstancesInput{
		Name:         t.Name,
		Port:         t.Port,
		InstancePort: t.InstancePort,
		InstanceIDs:  ids,
	}
}

// mutationError folds a call error and a non-OK response into one error.
func mutationError(resp *nifcloud.Response, err error) error {
	if err != nil {
		return err
	}
	return resp.Err()
}
