package healthcheck

import (
	"slices"
	"time"
)

// Config is the immutable input of a run. The same timeout, retry budget and
// interval apply to every host.
type Config struct {
	// Hosts are probed independently; duplicates are probed twice.
	Hosts []string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Retries is the maximum number of attempts per host. Zero reports the
	// host unhealthy without probing it.
	Retries int
	// Interval is slept after every failed attempt, including the last one
	// unless WithSkipFinalSleep is set.
	Interval time.Duration
}

func (c Config) clone() Config {
	c.Hosts = slices.Clone(c.Hosts)
	return c
}
