package performance

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker // Completed and in-flight markers by unique ID
	mu      sync.RWMutex       // Protects concurrent access
	seq     uint64             // Monotonic marker sequence
	started time.Time          // When tracking started
	config  *TrackerConfig     // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers int `json:"maxMarkers"` // Maximum number of markers to retain
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers: 10000,
	}
}

// NewTracker creates a new performance tracker
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and registers a new marker for an operation.
func (t *Tracker) StartOperation(operation, projectID string) *Marker {
	marker := &Marker{
		Operation: operation,
		ProjectID: projectID,
		StartTime: time.Now(),
		Success:   true,
	}

	id := fmt.Sprintf("%s-%d", operation, atomic.AddUint64(&t.seq, 1))

	t.mu.Lock()
	defer t.mu.Unlock()

	// Drop the whole window rather than tracking an eviction order; markers
	// are diagnostics, not records.
	if len(t.markers) >= t.config.MaxMarkers {
		t.markers = make(map[string]*Marker)
	}
	t.markers[id] = marker

	return marker
}

// Stats summarizes tracked operations since startup.
type Stats struct {
	Uptime          time.Duration `json:"uptime"`
	TotalMarkers    int           `json:"totalMarkers"`
	CompletedOps    int           `json:"completedOps"`
	FailedOps       int           `json:"failedOps"`
	AverageDuration time.Duration `json:"averageDuration"`
}

// GetStats aggregates the retained markers.
func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{
		Uptime:       time.Since(t.started),
		TotalMarkers: len(t.markers),
	}

	var totalDuration time.Duration
	for _, marker := range t.markers {
		completed, success, duration := marker.snapshot()
		if !completed {
			continue
		}
		stats.CompletedOps++
		totalDuration += duration
		if !success {
			stats.FailedOps++
		}
	}

	if stats.CompletedOps > 0 {
		stats.AverageDuration = totalDuration / time.Duration(stats.CompletedOps)
	}
	return stats
}
