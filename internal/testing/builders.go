package testing

import (
	"slices"

	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/util/ptr"
)

// Credentials used by ConfigBuilder and FakeNifcloud.
const (
	TestAccessKey = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TestSecretKey = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TestEndpoint  = "west-1.cp.cloud.nifty.com"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder for lb001 port 80 -> 80.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			AccessKey:       TestAccessKey,
			SecretAccessKey: TestSecretKey,
			Endpoint:        TestEndpoint,
			State:           config.StatePresent,
			LoadBalancer: config.LoadBalancerConfig{
				Name:         "lb001",
				Port:         80,
				InstancePort: 80,
			},
		},
	}
}

// WithName sets the load balancer name.
func (b *ConfigBuilder) WithName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.LoadBalancer.Name = name
	return newBuilder
}

// WithPorts sets the listener port pair.
func (b *ConfigBuilder) WithPorts(port, instancePort int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.LoadBalancer.Port = port
	newBuilder.cfg.LoadBalancer.InstancePort = instancePort
	return newBuilder
}

// WithFilter sets the desired filter.
func (b *ConfigBuilder) WithFilter(filterType int, purge bool, ips ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Filter = config.FilterConfig{
		Type:        filterType,
		IPAddresses: slices.Clone(ips),
		Purge:       ptr.Bool(purge),
	}
	return newBuilder
}

// WithInstances makes the instances managed.
func (b *ConfigBuilder) WithInstances(purge bool, ids ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Instances = &config.InstancesConfig{
		IDs:   append([]string{}, ids...),
		Purge: ptr.Bool(purge),
	}
	return newBuilder
}

// WithState sets the goal state.
func (b *ConfigBuilder) WithState(state string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.State = state
	return newBuilder
}

// Build returns the constructed config with defaults applied.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	newCfg.Filter.IPAddresses = slices.Clone(b.cfg.Filter.IPAddresses)
	if b.cfg.Filter.Purge != nil {
		newCfg.Filter.Purge = ptr.Bool(*b.cfg.Filter.Purge)
	}
	if b.cfg.Instances != nil {
		inst := *b.cfg.Instances
		inst.IDs = slices.Clone(b.cfg.Instances.IDs)
		if inst.Purge != nil {
			inst.Purge = ptr.Bool(*inst.Purge)
		}
		newCfg.Instances = &inst
	}
	return &ConfigBuilder{cfg: newCfg}
}
