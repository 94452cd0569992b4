package wizard

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/nifcloud-lb/internal/config"
)

// nameRegex validates load balancer names: 1-15 alphanumeric characters.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{1,15}$`)

// runLoadBalancerGroup prompts for endpoint, name and the listener ports.
func runLoadBalancerGroup(ctx context.Context, result *WizardResult) error {
	port := "80"
	instancePort := "80"
	result.BalancingType = config.DefaultBalancingType

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Endpoint").
				Description("NIFCLOUD region the load balancer lives in").
				Options(EndpointsToOptions()...).
				Value(&result.Endpoint),
			huh.NewInput().
				Title("Load Balancer Name").
				Description("1-15 alphanumeric characters").
				Placeholder("lb001").
				Value(&result.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Port").
				Description("External port of the listener").
				Value(&port).
				Validate(validatePort),
			huh.NewInput().
				Title("Instance Port").
				Description("Port the instances listen on").
				Value(&instancePort).
				Validate(validatePort),
			huh.NewSelect[int]().
				Title("Balancing Type").
				Options(BalancingTypeOptions...).
				Value(&result.BalancingType),
		).Title("Load Balancer"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.Port, _ = strconv.Atoi(strings.TrimSpace(port))
	result.InstancePort, _ = strconv.Atoi(strings.TrimSpace(instancePort))
	return nil
}

// runPlanGroup prompts for the attributes only used when creating the load balancer.
func runPlanGroup(ctx context.Context, result *WizardResult) error {
	result.NetworkVolume = config.DefaultNetworkVolume
	result.PolicyType = config.DefaultPolicyType
	result.AccountingType = config.DefaultAccountingType

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Network Volume").
				Description("Bandwidth of the load balancer").
				Options(NetworkVolumesToOptions()...).
				Value(&result.NetworkVolume),
			huh.NewSelect[string]().
				Title("Policy Type").
				Options(PolicyTypeOptions...).
				Value(&result.PolicyType),
			huh.NewSelect[string]().
				Title("Accounting Type").
				Options(AccountingTypeOptions...).
				Value(&result.AccountingType),
		).Title("Plan"),
	).RunWithContext(ctx)
}

// runFilterGroup prompts for the IP filter.
func runFilterGroup(ctx context.Context, result *WizardResult) error {
	var ipInput string
	result.FilterType = config.DefaultFilterType

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Filter Type").
				Options(FilterTypeOptions...).
				Value(&result.FilterType),
			huh.NewInput().
				Title("Filter Addresses (Optional)").
				Description("Comma-separated IP addresses or CIDR ranges. Leave empty for no filter.").
				Placeholder("192.168.0.1, 10.0.0.0/24").
				Value(&ipInput).
				Validate(validateIPList),
		).Title("Filter"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.FilterIPAddresses = parseList(ipInput)
	return nil
}

// runInstancesGroup asks whether instances are managed and which ones.
func runInstancesGroup(ctx context.Context, result *WizardResult) error {
	var manage bool
	var idInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Manage registered instances?").
				Description("When enabled, instances not listed are deregistered").
				Value(&manage),
		),
	).RunWithContext(ctx)
	if err != nil || !manage {
		return err
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instance IDs").
				Description("Comma-separated server names").
				Placeholder("web001, web002").
				Value(&idInput),
		).Title("Instances"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.InstanceIDs = parseList(idInput)
	if result.InstanceIDs == nil {
		result.InstanceIDs = []string{}
	}
	return nil
}

func validateName(s string) error {
	if s == "" {
		return errNameRequired
	}
	if !nameRegex.MatchString(s) {
		return errNameInvalid
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateIPList(s string) error {
	for _, addr := range parseList(s) {
		if net.ParseIP(addr) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(addr); err != nil {
			return errIPInvalid
		}
	}
	return nil
}

// parseList splits a comma-separated input, dropping empty entries.
func parseList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
