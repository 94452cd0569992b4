package wizard

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/imamik/nifcloud-lb/internal/config"
)

// EndpointOption represents a NIFCLOUD API endpoint.
type EndpointOption struct {
	Value       string
	Label       string
	Description string
}

// Endpoints contains the regional NIFCLOUD control-plane endpoints.
var Endpoints = []EndpointOption{
	{Value: "jp-east-1.computing.api.nifcloud.com", Label: "jp-east-1", Description: "East Japan 1"},
	{Value: "jp-east-2.computing.api.nifcloud.com", Label: "jp-east-2", Description: "East Japan 2"},
	{Value: "jp-east-3.computing.api.nifcloud.com", Label: "jp-east-3", Description: "East Japan 3"},
	{Value: "jp-east-4.computing.api.nifcloud.com", Label: "jp-east-4", Description: "East Japan 4"},
	{Value: "jp-west-1.computing.api.nifcloud.com", Label: "jp-west-1", Description: "West Japan 1"},
	{Value: "west-1.cp.cloud.nifty.com", Label: "west-1 (legacy)", Description: "West Japan 1, legacy host name"},
}

// BalancingTypeOptions contains the listener balancing algorithms.
var BalancingTypeOptions = []huh.Option[int]{
	huh.NewOption("Round robin", config.BalancingRoundRobin),
	huh.NewOption("Least connection", config.BalancingLeastConnection),
}

// NetworkVolumes contains the bandwidth plans in Mbps.
var NetworkVolumes = []int{10, 20, 30, 40, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1500, 2000}

// PolicyTypeOptions contains the load balancer policy types.
var PolicyTypeOptions = []huh.Option[string]{
	huh.NewOption("standard", "standard"),
	huh.NewOption("ats (high-throughput)", "ats"),
}

// AccountingTypeOptions contains the billing plans.
var AccountingTypeOptions = []huh.Option[string]{
	huh.NewOption("Monthly", "1"),
	huh.NewOption("Pay per use", "2"),
}

// FilterTypeOptions contains the filter modes.
var FilterTypeOptions = []huh.Option[int]{
	huh.NewOption("Allow listed addresses", config.FilterTypeAllow),
	huh.NewOption("Deny listed addresses", config.FilterTypeDeny),
}

// EndpointsToOptions converts Endpoints to huh options.
func EndpointsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Endpoints))
	for i, e := range Endpoints {
		opts[i] = huh.NewOption(e.Label+" - "+e.Description, e.Value)
	}
	return opts
}

// NetworkVolumesToOptions converts NetworkVolumes to huh options.
func NetworkVolumesToOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], len(NetworkVolumes))
	for i, v := range NetworkVolumes {
		opts[i] = huh.NewOption(strconv.Itoa(v)+" Mbps", v)
	}
	return opts
}
