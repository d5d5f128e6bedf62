// Package probe performs single liveness checks against HTTP endpoints.
//
// A probe is one attempt: it issues a GET to the host URL with the per-attempt
// timeout applied to the whole request/response cycle and classifies the
// outcome as reachable (2xx) or unreachable (any other status, timeout or
// transport failure). Unreachable outcomes are values, not errors. An error is
// returned only when the host cannot be attempted at all, see ErrInvalidHost.
package probe
