package reconciler

import (
	"context"
	"net/http"

	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
)

// State is the observed condition of the target listener.
type State string

// Observed states.
const (
	StateAbsent       State = "absent"
	StatePortNotFound State = "port-not-found"
	StatePresent      State = "present"
	StateError        State = "error"
)

func (s State) String() string { return string(s) }

// ClassifyResponse maps a DescribeLoadBalancers response to a State.
// StateError is always returned together with the underlying error.
func ClassifyResponse(resp *nifcloud.Response) (State, error) {
	if resp.StatusCode == http.StatusOK {
		return StatePresent, nil
	}

	err := resp.Err()
	switch nifcloud.ErrorCode(err) {
	case nifcloud.ErrorCodePortNotFound:
		return StatePortNotFound, nil
	case nifcloud.ErrorCodeLoadBalancerNotFound:
		return StateAbsent, nil
	}
	return StateError, err
}

// Classify describes the target listener and classifies the response.
func Classify(ctx context.Context, api API, t Target) (State, error) {
	resp, err := api.DescribeLoadBalancers(ctx, t.Name, t.Port, t.InstancePort)
	if err != nil {
		return StateError, err
	}
	return ClassifyResponse(resp)
}
