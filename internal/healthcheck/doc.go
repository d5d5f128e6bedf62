// Package healthcheck runs a single pass of liveness checks over a set of hosts.
//
// Every host gets its own retry loop running in its own goroutine. A loop probes
// up to Config.Retries times, sleeping Config.Interval after every failed
// attempt, and stops at the first success. Check waits for every loop and
// returns the results in the order the hosts were configured.
package healthcheck
