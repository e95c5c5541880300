package collector

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{}

func (failingStorage) Get(string) (string, error) { return "", errors.New("storage unavailable") }
func (failingStorage) Set(string, string) error   { return errors.New("storage unavailable") }

func TestResolveMintsAndReusesToken(t *testing.T) {
	storage := NewMemoryStorage()
	mgr := NewSessionManager(storage)

	token, started := mgr.Resolve()
	require.NotEmpty(t, token)
	assert.True(t, started)

	again, started := mgr.Resolve()
	assert.Equal(t, token, again)
	assert.False(t, started)
}

func TestResolveExpiresIdleSession(t *testing.T) {
	storage := NewMemoryStorage()
	now := time.Now()
	clock := func() time.Time { return now }
	mgr := NewSessionManager(storage, WithClock(clock))

	first, started := mgr.Resolve()
	require.True(t, started)

	now = now.Add(31 * time.Minute)
	second, started := mgr.Resolve()
	assert.True(t, started)
	assert.NotEqual(t, first, second, "expired token must never be reused")
}

func TestResolveKeepsSessionInsideIdleWindow(t *testing.T) {
	storage := NewMemoryStorage()
	now := time.Now()
	mgr := NewSessionManager(storage, WithClock(func() time.Time { return now }))

	first, _ := mgr.Resolve()
	now = now.Add(29 * time.Minute)
	second, started := mgr.Resolve()
	assert.Equal(t, first, second)
	assert.False(t, started)
}

func TestActivityExtendsSession(t *testing.T) {
	storage := NewMemoryStorage()
	now := time.Now()
	mgr := NewSessionManager(storage, WithClock(func() time.Time { return now }))

	first, _ := mgr.Resolve()

	// Each resolve rewrites last activity, so repeated activity keeps the
	// session alive past the original window.
	for i := 0; i < 4; i++ {
		now = now.Add(20 * time.Minute)
		token, started := mgr.Resolve()
		assert.Equal(t, first, token)
		assert.False(t, started)
	}
}

func TestStorageFailureFallsBackToEphemeralToken(t *testing.T) {
	mgr := NewSessionManager(failingStorage{})

	token, started := mgr.Resolve()
	require.True(t, strings.HasPrefix(token, "session_"))
	assert.True(t, started)

	again, started := mgr.Resolve()
	assert.Equal(t, token, again, "ephemeral token is reused for the manager's lifetime")
	assert.False(t, started)
}

func TestCorruptLastActivityCountsAsExpired(t *testing.T) {
	storage := NewMemoryStorage()
	mgr := NewSessionManager(storage)

	first, _ := mgr.Resolve()
	require.NoError(t, storage.Set("zf_last_activity", "not-a-number"))

	second, started := mgr.Resolve()
	assert.True(t, started)
	assert.NotEqual(t, first, second)
}

func TestCustomIdleExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	now := time.Now()
	mgr := NewSessionManager(storage,
		WithClock(func() time.Time { return now }),
		WithIdleExpiry(time.Minute))

	first, _ := mgr.Resolve()
	now = now.Add(2 * time.Minute)
	second, started := mgr.Resolve()
	assert.True(t, started)
	assert.NotEqual(t, first, second)
}
