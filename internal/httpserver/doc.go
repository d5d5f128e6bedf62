// Package httpserver wraps http.Server with address validation and graceful
// shutdown driven by a context.
package httpserver
