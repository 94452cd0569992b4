package nifcloud

import (
	"errors"
	"fmt"
)

// Error codes returned by DescribeLoadBalancers that carry state information.
const (
	ErrorCodeLoadBalancerNotFound = "Client.InvalidParameterNotFound.LoadBalancer"
	ErrorCodePortNotFound         = "Client.InvalidParameterNotFound.LoadBalancerPort"
)

// APIError is an error envelope returned by the NIFCLOUD API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nifcloud api error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
}

// TransportError means no HTTP response could be obtained.
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: http request failed: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means the response body could not be interpreted.
type MalformedResponseError struct {
	Action string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Action, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UnsupportedMethodError is returned for HTTP methods other than GET and POST.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("un-supported http method %q", e.Method)
}

// errNoErrorElement is wrapped into a MalformedResponseError when a failed
// response has no Errors/Error element.
var errNoErrorElement = errors.New("no Error element in failed response")

// ErrorCode returns the API error code carried in err, or "" if err does not
// wrap an *APIError.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsLoadBalancerNotFound reports whether err says the load balancer does not exist.
func IsLoadBalancerNotFound(err error) bool {
	return ErrorCode(err) == ErrorCodeLoadBalancerNotFound
}

// IsPortNotFound reports whether err says the listener does not exist.
func IsPortNotFound(err error) bool {
	return ErrorCode(err) == ErrorCodePortNotFound
}
