package monitoring

import (
	"math"
	"runtime"
	"sync"
	"time"
)

// Metrics is a point in time view of the server counters
type Metrics struct {
	StartTime time.Time `json:"startTime"`
	Uptime    string    `json:"uptime"`

	Conversions        int64 `json:"conversions"`
	ConversionFailures int64 `json:"conversionFailures"`
	StaleConversions   int64 `json:"staleConversions"`
	Exports            int64 `json:"exports"`
	ExportFailures     int64 `json:"exportFailures"`

	HTTPRequests         int64 `json:"httpRequests"`
	WebSocketConnections int64 `json:"websocketConnections"`

	AverageConversionMs int64 `json:"averageConversionMs"`
	AverageExportMs     int64 `json:"averageExportMs"`

	MemoryMB   int64 `json:"memoryMb"`
	Goroutines int   `json:"goroutines"`
}

// Outcome classifies a finished conversion
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeStale
)

// Monitor counts conversions, exports and connections for the health endpoint
type Monitor struct {
	mu  sync.RWMutex
	now func() time.Time

	start time.Time

	conversions        int64
	conversionFailures int64
	staleConversions   int64
	exports            int64
	exportFailures     int64
	httpRequests       int64
	wsConnections      int64

	avgConversion time.Duration
	avgExport     time.Duration
}

// NewMonitor creates a monitor starting now
func NewMonitor() *Monitor {
	return &Monitor{now: time.Now, start: time.Now()}
}

// RecordConversion records one pipeline run
func (m *Monitor) RecordConversion(duration time.Duration, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch outcome {
	case OutcomeFailure:
		m.conversionFailures++
	case OutcomeStale:
		m.staleConversions++
	default:
		m.conversions++
		m.avgConversion = movingAverage(m.avgConversion, duration, m.conversions)
	}
}

// RecordExport records one serialization
func (m *Monitor) RecordExport(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if failed {
		m.exportFailures++
		return
	}
	m.exports++
	m.avgExport = movingAverage(m.avgExport, duration, m.exports)
}

// RecordHTTPRequest records an HTTP request
func (m *Monitor) RecordHTTPRequest() {
	m.mu.Lock()
	m.httpRequests++
	m.mu.Unlock()
}

// RecordWebSocketConnection records an accepted WebSocket client
func (m *Monitor) RecordWebSocketConnection() {
	m.mu.Lock()
	m.wsConnections++
	m.mu.Unlock()
}

// Snapshot returns the current counters together with runtime memory stats
func (m *Monitor) Snapshot() Metrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.RLock()
	defer m.mu.RUnlock()

	return Metrics{
		StartTime:            m.start,
		Uptime:               m.now().Sub(m.start).Truncate(time.Second).String(),
		Conversions:          m.conversions,
		ConversionFailures:   m.conversionFailures,
		StaleConversions:     m.staleConversions,
		Exports:              m.exports,
		ExportFailures:       m.exportFailures,
		HTTPRequests:         m.httpRequests,
		WebSocketConnections: m.wsConnections,
		AverageConversionMs:  m.avgConversion.Milliseconds(),
		AverageExportMs:      m.avgExport.Milliseconds(),
		MemoryMB:             safeUint64ToInt64(memStats.Alloc) / (1024 * 1024),
		Goroutines:           runtime.NumGoroutine(),
	}
}

// IsHealthy performs a basic resource check
func (m *Monitor) IsHealthy() bool {
	snapshot := m.Snapshot()

	maxMemoryMB := int64(500)
	maxGoroutines := 1000

	return snapshot.MemoryMB < maxMemoryMB && snapshot.Goroutines < maxGoroutines
}

// movingAverage is an exponential moving average seeded by the first sample
func movingAverage(current, sample time.Duration, count int64) time.Duration {
	if count <= 1 || current == 0 {
		return sample
	}
	alpha := 0.1
	return time.Duration(float64(current)*(1-alpha) + float64(sample)*alpha)
}

// safeUint64ToInt64 caps val at the max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}
