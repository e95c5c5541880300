package performance

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatsAggregatesCompletedMarkers(t *testing.T) {
	tracker := NewTracker(nil)

	ok := tracker.StartOperation("track_event", "p1")
	ok.Complete()

	failed := tracker.StartOperation("track_event", "p1")
	failed.SetError(errors.New("storage unavailable"))
	failed.Complete()

	inflight := tracker.StartOperation("track_event", "p1")
	_ = inflight

	stats := tracker.GetStats()
	assert.Equal(t, 3, stats.TotalMarkers)
	assert.Equal(t, 2, stats.CompletedOps)
	assert.Equal(t, 1, stats.FailedOps)
}

func TestCompleteIsIdempotent(t *testing.T) {
	tracker := NewTracker(nil)
	m := tracker.StartOperation("fetch_active_actions", "p1")

	m.Complete()
	_, _, first := m.snapshot()
	m.Complete()
	_, _, second := m.snapshot()
	assert.Equal(t, first, second)
}

func TestCacheHitRatio(t *testing.T) {
	m := &Marker{}
	assert.Zero(t, m.GetCacheHitRatio())

	m.AddCacheHit()
	m.AddCacheHit()
	m.AddCacheMiss()
	assert.InDelta(t, 2.0/3.0, m.GetCacheHitRatio(), 1e-9)
}

func TestStatsReadableWhileMarkersMutate(t *testing.T) {
	tracker := NewTracker(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m := tracker.StartOperation("track_event", "p1")
				m.AddMetadata("iteration", j)
				m.AddCacheHit()
				m.SetSuccess(j%2 == 0)
				m.Complete()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			tracker.GetStats()
		}
	}()
	wg.Wait()

	stats := tracker.GetStats()
	require.Equal(t, 1600, stats.CompletedOps)
	assert.Equal(t, 800, stats.FailedOps)
}
