package wizard

import (
	"github.com/imamik/nifcloud-lb/internal/config"
	"github.com/imamik/nifcloud-lb/internal/util/ptr"
)

// BuildConfig creates a Config struct from the wizard result.
// Credentials are left empty; they are expected in the environment.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		Endpoint: result.Endpoint,
		State:    config.StatePresent,
		LoadBalancer: config.LoadBalancerConfig{
			Name:           result.Name,
			Port:           result.Port,
			InstancePort:   result.InstancePort,
			BalancingType:  result.BalancingType,
			NetworkVolume:  result.NetworkVolume,
			IPVersion:      config.DefaultIPVersion,
			AccountingType: result.AccountingType,
			PolicyType:     result.PolicyType,
		},
		Filter: config.FilterConfig{
			Type:        result.FilterType,
			IPAddresses: result.FilterIPAddresses,
			Purge:       ptr.Bool(true),
		},
	}

	if result.InstanceIDs != nil {
		cfg.Instances = &config.InstancesConfig{
			IDs:   result.InstanceIDs,
			Purge: ptr.Bool(true),
		}
	}

	cfg.ApplyDefaults()
	return cfg
}
