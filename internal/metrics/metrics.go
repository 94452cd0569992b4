// Package metrics holds the Prometheus collectors for nifcloud-lb.
//
// Collectors are registered on a dedicated Registry instead of the global
// default one, so the CLI can export exactly these series to a node-exporter
// textfile after a run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry all nifcloud-lb collectors are registered on.
var Registry = prometheus.NewRegistry()

var (
	// NIFCLOUD API metrics
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "api",
			Name:      "calls_total",
			Help:      "Total number of NIFCLOUD API calls by action and result",
		},
		[]string{"action", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of NIFCLOUD API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
		},
		[]string{"action"},
	)

	// Reconciliation metrics
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "reconciler",
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations by load balancer and result",
		},
		[]string{"load_balancer", "result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "reconciler",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
		},
		[]string{"load_balancer"},
	)

	convergencePolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "reconciler",
			Name:      "convergence_polls_total",
			Help:      "Number of state checks made while waiting for convergence, by operation",
		},
		[]string{"operation"},
	)

	observedState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nifcloud_lb",
			Subsystem: "reconciler",
			Name:      "observed_state",
			Help:      "Last observed state of the load balancer listener (1 for the current state)",
		},
		[]string{"load_balancer", "state"},
	)
)

func init() {
	Registry.MustRegister(
		apiCallsTotal,
		apiLatency,
		reconcileTotal,
		reconcileDuration,
		convergencePolls,
		observedState,
	)
}

// States lists every value the observed_state gauge is labelled with.
var States = []string{"absent", "port-not-found", "present", "error"}

// RecordAPICall records a NIFCLOUD API call.
func RecordAPICall(action, result string, latency float64) {
	apiCallsTotal.WithLabelValues(action, result).Inc()
	apiLatency.WithLabelValues(action).Observe(latency)
}

// RecordReconcile records a reconciliation result.
func RecordReconcile(loadBalancer, result string, duration float64) {
	reconcileTotal.WithLabelValues(loadBalancer, result).Inc()
	reconcileDuration.WithLabelValues(loadBalancer).Observe(duration)
}

// RecordConvergencePoll counts one state check made while waiting after operation.
func RecordConvergencePoll(operation string) {
	convergencePolls.WithLabelValues(operation).Inc()
}

// RecordObservedState sets the gauge for state to 1 and every other state to 0.
func RecordObservedState(loadBalancer, state string) {
	for _, s := range States {
		if s == state {
			observedState.WithLabelValues(loadBalancer, s).Set(1)
		} else {
			observedState.WithLabelValues(loadBalancer, s).Set(0)
		}
	}
}

// WriteTextfile writes all collected series to path in the text exposition
// format used by the node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
