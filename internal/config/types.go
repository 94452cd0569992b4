package config

import "github.com/imamik/nifcloud-lb/internal/util/ptr"

// Config is the nifcloud-lb configuration file.
type Config struct {
	AccessKey       string `yaml:"access_key,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	Endpoint        string `yaml:"endpoint"`

	// State is the goal state. Only "present" is supported.
	State string `yaml:"state"`

	LoadBalancer LoadBalancerConfig `yaml:"load_balancer"`

	// Instances is optional. Without it registered instances are left alone.
	Instances *InstancesConfig `yaml:"instances,omitempty"`

	Filter FilterConfig `yaml:"filter"`
}

// LoadBalancerConfig describes the load balancer and the listener to manage.
type LoadBalancerConfig struct {
	Name           string `yaml:"name"`
	Port           int    `yaml:"port"`
	InstancePort   int    `yaml:"instance_port"`
	BalancingType  int    `yaml:"balancing_type,omitempty"`
	NetworkVolume  int    `yaml:"network_volume,omitempty"`
	IPVersion      string `yaml:"ip_version,omitempty"`
	AccountingType string `yaml:"accounting_type,omitempty"`
	PolicyType     string `yaml:"policy_type,omitempty"`
}

// InstancesConfig lists the instances that should serve the listener.
type InstancesConfig struct {
	IDs   []string `yaml:"ids"`
	Purge *bool    `yaml:"purge,omitempty"`
}

// FilterConfig is the IP filter of the listener.
type FilterConfig struct {
	Type        int      `yaml:"type,omitempty"`
	IPAddresses []string `yaml:"ip_addresses,omitempty"`
	Purge       *bool    `yaml:"purge,omitempty"`
}

// PurgeInstances reports whether instances missing from IDs are deregistered.
func (c *Config) PurgeInstances() bool {
	if c.Instances == nil {
		return false
	}
	return ptr.Deref(c.Instances.Purge, true)
}

// PurgeFilter reports whether addresses missing from the filter config are removed.
func (c *Config) PurgeFilter() bool {
	return ptr.Deref(c.Filter.Purge, true)
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	lb := &c.LoadBalancer
	if lb.BalancingType == 0 {
		lb.BalancingType = DefaultBalancingType
	}
	if lb.NetworkVolume == 0 {
		lb.NetworkVolume = DefaultNetworkVolume
	}
	if lb.IPVersion == "" {
		lb.IPVersion = DefaultIPVersion
	}
	if lb.AccountingType == "" {
		lb.AccountingType = DefaultAccountingType
	}
	if lb.PolicyType == "" {
		lb.PolicyType = DefaultPolicyType
	}

	if c.Filter.Type == 0 {
		c.Filter.Type = DefaultFilterType
	}
	if c.Filter.Purge == nil {
		c.Filter.Purge = ptr.Bool(true)
	}
	if c.Instances != nil && c.Instances.Purge == nil {
		c.Instances.Purge = ptr.Bool(true)
	}
}
