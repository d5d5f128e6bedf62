package report

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/angeloszaimis/healthcheck/internal/healthcheck"
)

// ErrUnhealthyHosts is returned by Decide when at least one host failed.
var ErrUnhealthyHosts = errors.New("unhealthy hosts")

// Unhealthy returns the hosts that did not pass, in result order.
func Unhealthy(results []healthcheck.Result) []string {
	var hosts []string
	for _, res := range results {
		if !res.Healthy {
			hosts = append(hosts, res.Host)
		}
	}
	return hosts
}

// Decide returns nil when every host is healthy.
func Decide(results []healthcheck.Result) error {
	if hosts := Unhealthy(results); len(hosts) > 0 {
		return fmt.Errorf("%w: %v", ErrUnhealthyHosts, hosts)
	}
	return nil
}

// Write prints one row per host followed by a summary line.
func Write(w io.Writer, results []healthcheck.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "HOST\tSTATUS\tATTEMPTS")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", res.Host, status(res), res.Attempts)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if hosts := Unhealthy(results); len(hosts) > 0 {
		_, err := fmt.Fprintf(w, "Unhealthy hosts: %v\n", hosts)
		return err
	}

	_, err := fmt.Fprintln(w, "All hosts are healthy")
	return err
}

func status(res healthcheck.Result) string {
	switch {
	case res.Healthy:
		return "healthy"
	case res.State == healthcheck.StateCancelled:
		return "cancelled"
	default:
		return "unhealthy"
	}
}
