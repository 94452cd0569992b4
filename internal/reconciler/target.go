package reconciler

import (
	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
)

// Target is the desired configuration of one load balancer listener.
type Target struct {
	Name           string
	Port           int
	InstancePort   int
	BalancingType  int
	NetworkVolume  int
	IPVersion      string
	AccountingType string
	PolicyType     string

	FilterType        int
	FilterIPAddresses []string
	PurgeFilter       bool

	// ManageInstances enables instance synchronization.
	ManageInstances bool
	InstanceIDs     []string
	PurgeInstances  bool
}

// TargetFromConfig converts a validated configuration into a Target.
func TargetFromConfig(cfg *config.Config) Target {
	lb := cfg.LoadBalancer
	t := Target{
		Name:              lb.Name,
		Port:              lb.Port,
		InstancePort:      lb.InstancePort,
		BalancingType:     lb.BalancingType,
		NetworkVolume:     lb.NetworkVolume,
		IPVersion:         lb.IPVersion,
		AccountingType:    lb.AccountingType,
		PolicyType:        lb.PolicyType,
		FilterType:        cfg.Filter.Type,
		FilterIPAddresses: cfg.Filter.IPAddresses,
		PurgeFilter:       cfg.PurgeFilter(),
	}
	if cfg.Instances != nil {
		t.ManageInstances = true
		t.InstanceIDs = cfg.Instances.IDs
		t.PurgeInstances = cfg.PurgeInstances()
	}
	return t
}

// Listener returns the listener attributes of t.
func (t Target) Listener() nifcloud.Listener {
	return nifcloud.Listener{
		LoadBalancerPort: t.Port,
		InstancePort:     t.InstancePort,
		BalancingType:    t.BalancingType,
	}
}
