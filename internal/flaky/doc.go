// Package flaky implements a controllable health endpoint for exercising the
// checker: it fails a fixed number of requests before recovering and can delay
// every response by a random amount.
package flaky
