// Package report turns a health check run into user-facing output and a
// single pass/fail decision.
package report
