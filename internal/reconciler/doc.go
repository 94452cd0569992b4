// Package reconciler drives one NIFCLOUD load balancer listener toward its
// declared configuration.
//
// A run is strictly sequential:
//
//  1. classify the listener as absent, port-not-found or present
//  2. create the load balancer or register the missing port, then poll until
//     the listener is reported present
//  3. synchronize the IP filter
//  4. synchronize registered instances, when they are managed
//
// Every fatal error is wrapped in a *PhaseError naming the step that failed.
// The outcome is a *Result whose Report form is what the CLI prints.
package reconciler
