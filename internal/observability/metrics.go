package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	requestTimeNs map[string]int64
	errorCount    map[string]int64
	authEvents    map[string]int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests       map[string]int64 `json:"requests"`
	RequestAvgMs   map[string]int64 `json:"request_avg_ms"`
	Errors         map[string]int64 `json:"errors"`
	AuthEvents     map[string]int64 `json:"auth_events"`
	CollectedAtUTC time.Time        `json:"collected_at"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		requestTimeNs: make(map[string]int64),
		errorCount:    make(map[string]int64),
		authEvents:    make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestTimeNs[key] += duration.Nanoseconds()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAuthEvent increments the counter for an auth event type.
func (m *Metrics) RecordAuthEvent(eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authEvents[eventType]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{CollectedAtUTC: time.Now().UTC()}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := make(map[string]int64, len(m.requestCount))
	for key, n := range m.requestCount {
		if n > 0 {
			avg[key] = time.Duration(m.requestTimeNs[key] / n).Milliseconds()
		}
	}
	return MetricsSnapshot{
		Requests:       copyCounts(m.requestCount),
		RequestAvgMs:   avg,
		Errors:         copyCounts(m.errorCount),
		AuthEvents:     copyCounts(m.authEvents),
		CollectedAtUTC: time.Now().UTC(),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
