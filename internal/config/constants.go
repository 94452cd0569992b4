package config

// Environment variables overriding values of the configuration file.
const (
	EnvAccessKeyID     = "NIFCLOUD_ACCESS_KEY_ID"
	EnvSecretAccessKey = "NIFCLOUD_SECRET_ACCESS_KEY"
	EnvEndpoint        = "NIFCLOUD_ENDPOINT"
)

// StatePresent is the only supported goal state.
const StatePresent = "present"

// Filter types.
const (
	FilterTypeAllow = 1
	FilterTypeDeny  = 2
)

// Balancing types.
const (
	BalancingRoundRobin      = 1
	BalancingLeastConnection = 2
)

// NoFilterSentinel is what the API reports for an empty filter. It can not
// be configured as an address.
const NoFilterSentinel = "*.*.*.*"

// Defaults applied by ApplyDefaults.
const (
	DefaultBalancingType  = BalancingRoundRobin
	DefaultNetworkVolume  = 10
	DefaultIPVersion      = "v4"
	DefaultAccountingType = "1"
	DefaultPolicyType     = "standard"
	DefaultFilterType     = FilterTypeAllow
)
