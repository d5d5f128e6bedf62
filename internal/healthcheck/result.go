package healthcheck

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Check when the run's context ends before every
// loop has finished.
var ErrCancelled = errors.New("health check cancelled")

// State is the lifecycle position of one host's retry loop.
type State int

const (
	StatePending    State = iota // Loop not started
	StateAttempting              // Probing or sleeping
	StateSucceeded               // A probe reached the host
	StateExhausted               // Retry budget spent
	StateCancelled               // Context ended first
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateAttempting:
		return "ATTEMPTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateExhausted:
		return "EXHAUSTED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one host's retry loop.
type Result struct {
	Host     string
	Healthy  bool
	State    State
	Attempts int
}

// HostError reports a host that could not be probed at all, such as a
// malformed URL. It aborts the whole run.
type HostError struct {
	Host string
	Err  error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("cannot check host %q: %v", e.Host, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}
