package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidIPVersions contains the IP versions a load balancer can be created with.
var ValidIPVersions = map[string]bool{
	"v4": true,
	"v6": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	// Goal state first, it must fail before anything else is looked at.
	if c.State != StatePresent {
		return fmt.Errorf("invalid state (goal state = %q): only %q is supported", c.State, StatePresent)
	}

	if c.AccessKey == "" {
		return fmt.Errorf("access_key is required (or set %s)", EnvAccessKeyID)
	}
	if c.SecretAccessKey == "" {
		return fmt.Errorf("secret_access_key is required (or set %s)", EnvSecretAccessKey)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required (or set %s)", EnvEndpoint)
	}
	if strings.Contains(c.Endpoint, "/") {
		return fmt.Errorf("endpoint %q must be a host name, not a URL", c.Endpoint)
	}

	if err := c.validateLoadBalancer(); err != nil {
		return fmt.Errorf("load_balancer validation failed: %w", err)
	}

	if err := c.validateFilter(); err != nil {
		return fmt.Errorf("filter validation failed: %w", err)
	}

	if err := c.validateInstances(); err != nil {
		return fmt.Errorf("instances validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateLoadBalancer() error {
	lb := c.LoadBalancer
	if lb.Name == "" {
		return errors.New("name is required")
	}
	if err := validatePort("port", lb.Port); err != nil {
		return err
	}
	if err := validatePort("instance_port", lb.InstancePort); err != nil {
		return err
	}
	if lb.BalancingType != BalancingRoundRobin && lb.BalancingType != BalancingLeastConnection {
		return fmt.Errorf("invalid balancing_type %d: must be %d (round robin) or %d (least connection)",
			lb.BalancingType, BalancingRoundRobin, BalancingLeastConnection)
	}
	if lb.NetworkVolume <= 0 {
		return fmt.Errorf("invalid network_volume %d: must be positive", lb.NetworkVolume)
	}
	if !ValidIPVersions[lb.IPVersion] {
		return fmt.Errorf("invalid ip_version %q: must be v4 or v6", lb.IPVersion)
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", field, port)
	}
	return nil
}

func (c *Config) validateFilter() error {
	f := c.Filter
	if f.Type != FilterTypeAllow && f.Type != FilterTypeDeny {
		return fmt.Errorf("invalid type %d: must be %d (allow) or %d (deny)", f.Type, FilterTypeAllow, FilterTypeDeny)
	}

	seen := make(map[string]bool, len(f.IPAddresses))
	for _, addr := range f.IPAddresses {
		if addr == NoFilterSentinel {
			return fmt.Errorf("%q can not be used as a filter address, leave ip_addresses empty instead", addr)
		}
		if !isIPOrCIDR(addr) {
			return fmt.Errorf("invalid ip address %q", addr)
		}
		if seen[addr] {
			return fmt.Errorf("duplicate ip address %q", addr)
		}
		seen[addr] = true
	}
	return nil
}

func isIPOrCIDR(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func (c *Config) validateInstances() error {
	if c.Instances == nil {
		return nil
	}
	seen := make(map[string]bool, len(c.Instances.IDs))
	for _, id := range c.Instances.IDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("instance id must not be empty")
		}
		if seen[id] {
			return fmt.Errorf("duplicate instance id %q", id)
		}
		seen[id] = true
	}
	return nil
}
