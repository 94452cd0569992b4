package nifcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Load balancer API actions.
const (
	ActionDescribeLoadBalancers               = "DescribeLoadBalancers"
	ActionCreateLoadBalancer                  = "CreateLoadBalancer"
	ActionRegisterPortWithLoadBalancer        = "RegisterPortWithLoadBalancer"
	ActionSetFilterForLoadBalancer            = "SetFilterForLoadBalancer"
	ActionRegisterInstancesWithLoadBalancer   = "RegisterInstancesWithLoadBalancer"
	ActionDeregisterInstancesFromLoadBalancer = "DeregisterInstancesFromLoadBalancer"
)

// NoFilterSentinel is the address DescribeLoadBalancers reports when a
// listener has no filter addresses configured.
const NoFilterSentinel = "*.*.*.*"

// DefaultFilterType is assumed when a description carries no Filter element.
const DefaultFilterType = 1

// Listener is the external-port-to-instance-port mapping of a load balancer.
type Listener struct {
	LoadBalancerPort int
	InstancePort     int
	BalancingType    int
}

// CreateLoadBalancerInput holds all parameters of CreateLoadBalancer.
type CreateLoadBalancerInput struct {
	Name           string
	Listener       Listener
	NetworkVolume  int
	IPVersion      string
	AccountingType string
	PolicyType     string
}

// FilterEntry is one address change of SetFilterForLoadBalancer.
// AddOnFilter=false removes the address from the filter.
type FilterEntry struct {
	IPAddress   string
	AddOnFilter bool
}

// SetFilterInput holds all parameters of SetFilterForLoadBalancer.
type SetFilterInput struct {
	Name         string
	Port         int
	InstancePort int
	FilterType   int
	Entries      []FilterEntry
}

// InstancesInput holds the parameters of the instance (de)registration actions.
type InstancesInput struct {
	Name         string
	Port         int
	InstancePort int
	InstanceIDs  []string
}

// DescribeLoadBalancers describes the listener port/instancePort of the load balancer name.
func (c *Client) DescribeLoadBalancers(ctx context.Context, name string, port, instancePort int) (*Response, error) {
	return c.Call(ctx, http.MethodGet, ActionDescribeLoadBalancers, Params{
		"LoadBalancerNames.member.1":           name,
		"LoadBalancerNames.LoadBalancerPort.1": port,
		"LoadBalancerNames.InstancePort.1":     instancePort,
	})
}

// CreateLoadBalancer creates a load balancer together with its first listener.
func (c *Client) CreateLoadBalancer(ctx context.Context, in CreateLoadBalancerInput) (*Response, error) {
	return c.Call(ctx, http.MethodPost, ActionCreateLoadBalancer, Params{
		"LoadBalancerName":                    in.Name,
		"Listeners.member.1.LoadBalancerPort": in.Listener.LoadBalancerPort,
		"Listeners.member.1.InstancePort":     in.Listener.InstancePort,
		"Listeners.member.1.BalancingType":    in.Listener.BalancingType,
		"NetworkVolume":                       in.NetworkVolume,
		"IpVersion":                           in.IPVersion,
		"AccountingType":                      in.AccountingType,
		"PolicyType":                          in.PolicyType,
	})
}

// RegisterPortWithLoadBalancer adds a listener to an existing load balancer.
func (c *Client) RegisterPortWithLoadBalancer(ctx context.Context, name string, l Listener) (*Response, error) {
	return c.Call(ctx, http.MethodPost, ActionRegisterPortWithLoadBalancer, Params{
		"LoadBalancerName":                    name,
		"Listeners.member.1.LoadBalancerPort": l.LoadBalancerPort,
		"Listeners.member.1.InstancePort":     l.InstancePort,
		"Listeners.member.1.BalancingType":    l.BalancingType,
	})
}

// SetFilterForLoadBalancer sets the filter type and applies address changes.
// Entries are numbered from 1 in the given order.
func (c *Client) SetFilterForLoadBalancer(ctx context.Context, in SetFilterInput) (*Response, error) {
	params := Params{
		"LoadBalancerName": in.Name,
		"LoadBalancerPort": in.Port,
		"InstancePort":     in.InstancePort,
		"FilterType":       in.FilterType,
	}
	for i, e := range in.Entries {
		n := i + 1
		params[fmt.Sprintf("IPAddresses.member.%d.IPAddress", n)] = e.IPAddress
		params[fmt.Sprintf("IPAddresses.member.%d.AddOnFilter", n)] = e.AddOnFilter
	}
	return c.Call(ctx, http.MethodPost, ActionSetFilterForLoadBalancer, params)
}

// RegisterInstancesWithLoadBalancer attaches instances to the listener.
func (c *Client) RegisterInstancesWithLoadBalancer(ctx context.Context, in InstancesInput) (*Response, error) {
	return c.Call(ctx, http.MethodGet, ActionRegisterInstancesWithLoadBalancer, instanceParams(in))
}

// DeregisterInstancesFromLoadBalancer detaches instances from the listener.
func (c *Client) DeregisterInstancesFromLoadBalancer(ctx context.Context, in InstancesInput) (*Response, error) {
	return c.Call(ctx, http.MethodGet, ActionDeregisterInstancesFromLoadBalancer, instanceParams(in))
}

func instanceParams(in InstancesInput) Params {
	params := Params{
		"LoadBalancerName": in.Name,
		"LoadBalancerPort": in.Port,
		"InstancePort":     in.InstancePort,
	}
	for i, id := range in.InstanceIDs {
		params[fmt.Sprintf("Instances.member.%d.InstanceId", i+1)] = id
	}
	return params
}

// LoadBalancerDescription is the part of a DescribeLoadBalancers result the
// reconciler works with.
type LoadBalancerDescription struct {
	Name       string
	FilterType int
	// FilterIPAddresses never contains NoFilterSentinel.
	FilterIPAddresses []string
	InstanceIDs       []string
}

// ParseLoadBalancerDescription extracts the description of name from a
// DescribeLoadBalancers response. When no member carries that name the first
// member is used.
func ParseLoadBalancerDescription(resp *Response, name string) (*LoadBalancerDescription, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}

	q := resp.Query()
	members := q.FindAll("LoadBalancerDescriptions", "member")
	if len(members) == 0 {
		return nil, &MalformedResponseError{
			Action: resp.Action,
			Err:    errors.New("no LoadBalancerDescriptions member"),
		}
	}

	member := members[0]
	for _, m := range members {
		if q.Within(m).Text("LoadBalancerName") == name {
			member = m
			break
		}
	}
	mq := q.Within(member)

	desc := &LoadBalancerDescription{
		Name:       mq.Text("LoadBalancerName"),
		FilterType: DefaultFilterType,
	}

	if filter := mq.Find("Filter"); filter != nil {
		fq := q.Within(filter)
		if raw := fq.Text("FilterType"); raw != "" {
			ft, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &MalformedResponseError{
					Action: resp.Action,
					Err:    fmt.Errorf("invalid FilterType %q: %w", raw, err),
				}
			}
			desc.FilterType = ft
		}
		for _, ip := range fq.Texts("IPAddresses", "member", "IPAddress") {
			if ip == "" || ip == NoFilterSentinel {
				continue
			}
			desc.FilterIPAddresses = append(desc.FilterIPAddresses, ip)
		}
	}

	for _, id := range mq.Texts("Instances", "member", "InstanceId") {
		if id != "" {
			desc.InstanceIDs = append(desc.InstanceIDs, id)
		}
	}

	return desc, nil
}
