package caching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLStoreGetSet(t *testing.T) {
	store := NewTTLStore[string](time.Minute)

	_, ok := store.Get("k")
	assert.False(t, ok)

	store.Set("k", "v")
	got, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestTTLStoreExpiry(t *testing.T) {
	store := NewTTLStore[int](10 * time.Millisecond)
	store.Set("k", 42)

	time.Sleep(20 * time.Millisecond)
	_, ok := store.Get("k")
	assert.False(t, ok, "entries past their TTL do not serve")
}

func TestTTLStoreInvalidate(t *testing.T) {
	store := NewTTLStore[int](time.Minute)
	store.Set("k", 1)
	store.Invalidate("k")

	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestTTLStoreSweepDropsOnlyExpired(t *testing.T) {
	store := NewTTLStore[int](15 * time.Millisecond)
	store.Set("old", 1)
	time.Sleep(25 * time.Millisecond)
	store.Set("fresh", 2)

	dropped := store.Sweep()
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}
