package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errNameRequired = errors.New("load balancer name is required")
	errNameInvalid  = errors.New("load balancer name must be 1-15 alphanumeric characters")
	errPortInvalid  = errors.New("port must be a number between 1 and 65535")
	errIPInvalid    = errors.New("expected comma-separated IP addresses or CIDR ranges")
)
