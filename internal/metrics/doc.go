// Package metrics collects per-host probe statistics for a health check run.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Attempt counts and failure counts per host
//   - Probe latencies with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//   - Final health status per host
//
// The collector runs in a dedicated goroutine. Producers send on a buffered
// channel with non-blocking semantics, so a full buffer drops events instead of
// delaying a probe.
//
// Example usage:
//
//	collector := metrics.NewCollector(64, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.Event{
//		Type:       metrics.EventAttemptCompleted,
//		Host:       "http://localhost:3030/healthcheck",
//		Duration:   15 * time.Millisecond,
//		StatusCode: 500,
//	}
//
//	cancel()
//	<-collector.Done()
//	snapshot := collector.Snapshot()
//
// Events sharing a host string are aggregated together, so duplicate hosts in
// one run share a single entry.
package metrics
