// Package performance provides performance monitoring data structures and
// utilities for tracking operation timings across the zapform runtime.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation.
// Request handlers mutate markers while the tracker aggregates them, so
// every field access goes through the marker's own mutex.
type Marker struct {
	mu          sync.Mutex
	Operation   string         `json:"operation"`       // e.g., "track_event", "fetch_active_actions"
	ProjectID   string         `json:"projectId"`       // Project identifier, empty before resolution
	StartTime   time.Time      `json:"startTime"`       // When the operation started
	EndTime     time.Time      `json:"endTime"`         // When the operation completed
	Duration    time.Duration  `json:"duration"`        // Total operation duration
	Success     bool           `json:"success"`         // Whether the operation completed successfully
	Error       string         `json:"error,omitempty"` // Error message if operation failed
	Metadata    map[string]any `json:"metadata"`        // Additional operation-specific data
	CacheHits   int            `json:"cacheHits"`       // Number of cache hits during operation
	CacheMisses int            `json:"cacheMisses"`     // Number of cache misses during operation
	Completed   bool           `json:"completed"`       // Whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Error = err.Error()
	m.Success = false
}

// SetProject records the project once the tracking identifier resolves.
func (m *Marker) SetProject(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProjectID = projectID
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// AddCacheHit increments the cache hit counter
func (m *Marker) AddCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

// AddCacheMiss increments the cache miss counter
func (m *Marker) AddCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// GetCacheHitRatio returns the cache hit ratio (0.0 to 1.0)
func (m *Marker) GetCacheHitRatio() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(total)
}

// snapshot returns the aggregation-relevant fields in one consistent read.
func (m *Marker) snapshot() (completed, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Completed, m.Success, m.Duration
}
