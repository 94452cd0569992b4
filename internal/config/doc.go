// Package config defines the nifcloud-lb configuration file: credentials,
// the desired load balancer listener, its filter and its instances.
//
// [Load] reads a YAML file, applies environment overrides for credentials,
// fills defaults and validates the result before any API call is made.
// Polling and HTTP timing knobs come from the environment via [LoadTimeouts].
package config
