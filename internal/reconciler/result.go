package reconciler

// Result is the outcome of a run.
type Result struct {
	Changed          bool
	LoadBalancerName string
	// State is the last observed state, StateError when Err is set.
	State State
	Err   error
}

// Failed reports whether the run ended with an error.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Report is the boundary form of a Result, as printed by the CLI.
type Report struct {
	Changed          bool   `json:"changed"`
	LoadBalancerName string `json:"loadbalancer_name"`
	Status           string `json:"status"`
	Failed           bool   `json:"failed,omitempty"`
	Msg              string `json:"msg,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// Report converts r. An API error anywhere in the chain is reported with its
// code and message verbatim; other errors only carry their text.
func (r *Result) Report() Report {
	rep := Report{
		Changed:          r.Changed,
		LoadBalancerName: r.LoadBalancerName,
		Status:           r.State.String(),
	}
	if r.Err == nil {
		return rep
	}

	rep.Failed = true
	rep.Msg = "changes failed"
	if phase := PhaseOf(r.Err); phase != "" {
		rep.Msg = "changes failed (" + string(phase) + ")"
	}
	if apiErr := apiErrorOf(r.Err); apiErr != nil {
		rep.ErrorCode = apiErr.Code
		rep.ErrorMessage = apiErr.Message
	} else {
		rep.ErrorMessage = r.Err.Error()
	}
	return rep
}
