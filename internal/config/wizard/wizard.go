package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	Endpoint string

	// Load balancer and listener
	Name           string
	Port           int
	InstancePort   int
	BalancingType  int
	NetworkVolume  int
	PolicyType     string
	AccountingType string

	// Filter
	FilterType        int
	FilterIPAddresses []string

	// Instances (nil when not managed)
	InstanceIDs []string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runLoadBalancerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("load balancer: %w", err)
	}

	if err := runPlanGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	if err := runFilterGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	if err := runInstancesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("instances: %w", err)
	}

	return result, nil
}
