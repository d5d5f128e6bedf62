package metrics

import (
	"slices"
	"sync"
	"time"
)

// maxSamples caps the latency samples kept per host.
const maxSamples = 1000

type Metrics struct {
	mutex        sync.RWMutex
	attempts     map[string]int64
	failures     map[string]int64
	latencies    map[string][]time.Duration
	statusCodes  map[string]map[int]int64
	healthStatus map[string]bool
	startTime    time.Time
}

type Snapshot struct {
	TotalAttempts int64                  `json:"total_attempts"`
	TotalFailures int64                  `json:"total_failures"`
	Elapsed       time.Duration          `json:"elapsed"`
	Hosts         map[string]HostMetrics `json:"hosts"`
}

type HostMetrics struct {
	Attempts    int64         `json:"attempts"`
	Failures    int64         `json:"failures"`
	Healthy     bool          `json:"healthy"`
	AvgLatency  time.Duration `json:"avg_latency"`
	P50Latency  time.Duration `json:"p50_latency"`
	P95Latency  time.Duration `json:"p95_latency"`
	P99Latency  time.Duration `json:"p99_latency"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

// RecordAttempt counts one probe. A zero statusCode means no response was
// received and is not added to the status distribution.
func (m *Metrics) RecordAttempt(host string, latency time.Duration, statusCode int, reachable bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.attempts[host]++
	if !reachable {
		m.failures[host]++
	}

	m.latencies[host] = append(m.latencies[host], latency)
	if len(m.latencies[host]) > maxSamples {
		m.latencies[host] = m.latencies[host][1:]
	}

	if statusCode == 0 {
		return
	}

	if m.statusCodes[host] == nil {
		m.statusCodes[host] = make(map[int]int64)
	}
	m.statusCodes[host][statusCode]++
}

func (m *Metrics) UpdateHealthStatus(host string, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.healthStatus[host] = healthy
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Elapsed: time.Since(m.startTime),
		Hosts:   make(map[string]HostMetrics),
	}

	// Collect all unique hosts
	allHosts := make(map[string]bool)
	for host := range m.attempts {
		allHosts[host] = true
	}
	for host := range m.healthStatus {
		allHosts[host] = true
	}

	for host := range allHosts {
		snap.TotalAttempts += m.attempts[host]
		snap.TotalFailures += m.failures[host]

		hm := HostMetrics{
			Attempts:    m.attempts[host],
			Failures:    m.failures[host],
			Healthy:     m.healthStatus[host],
			StatusCodes: make(map[int]int64, len(m.statusCodes[host])),
		}
		for code, n := range m.statusCodes[host] {
			hm.StatusCodes[code] = n
		}

		if samples := m.latencies[host]; len(samples) > 0 {
			sorted := slices.Clone(samples)
			slices.Sort(sorted)

			hm.AvgLatency = average(sorted)
			hm.P50Latency = percentile(sorted, 0.50)
			hm.P95Latency = percentile(sorted, 0.95)
			hm.P99Latency = percentile(sorted, 0.99)
		}

		snap.Hosts[host] = hm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		attempts:     make(map[string]int64),
		failures:     make(map[string]int64),
		latencies:    make(map[string][]time.Duration),
		statusCodes:  make(map[string]map[int]int64),
		healthStatus: make(map[string]bool),
		startTime:    time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
