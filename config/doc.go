// Package config loads the health checker and test server settings from an
// optional YAML file, an optional .env file and environment variables, and
// validates them before anything is probed.
package config
