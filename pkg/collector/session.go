// Package collector is the host-embeddable half of the tracking runtime: it
// resolves an anonymous session identity, emits event envelopes to the
// ingestion API on a best-effort basis, and runs the engagement action
// trigger machinery. The served browser script implements the same contract;
// this package makes the behavior testable and reusable from Go hosts.
package collector

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Storage keys mirrored by the browser collector's localStorage layout.
const (
	sessionTokenKey = "zf_session"
	lastActivityKey = "zf_last_activity"
)

// ephemeralTokenPrefix marks tokens that were never persisted; the server
// treats them like any other token, they just do not survive the process.
const ephemeralTokenPrefix = "session_"

// DefaultSessionIdleExpiry matches the server-side idle window.
const DefaultSessionIdleExpiry = 30 * time.Minute

// Storage is the persistent key/value surface a session survives in between
// page loads. Implementations may fail; the session manager degrades to an
// ephemeral identity rather than surfacing the error.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// SessionManager hands out the current session token, minting a fresh one
// when the stored identity is absent or idle-expired.
type SessionManager struct {
	storage     Storage
	idleExpiry  time.Duration
	now         func() time.Time
	ephemeral   string
	newToken    func() string
	newEphemIDs func() string
}

// SessionOption adjusts a SessionManager.
type SessionOption func(*SessionManager)

// WithIdleExpiry overrides the 30-minute idle window.
func WithIdleExpiry(d time.Duration) SessionOption {
	return func(m *SessionManager) { m.idleExpiry = d }
}

// WithClock substitutes the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager builds a manager over the given storage.
func NewSessionManager(storage Storage, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		storage:     storage,
		idleExpiry:  DefaultSessionIdleExpiry,
		now:         time.Now,
		newToken:    func() string { return uuid.NewString() },
		newEphemIDs: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve returns the active session token, reusing the stored one when its
// last activity is within the idle window and minting a fresh token
// otherwise. started is true exactly when a new session begins, which is the
// caller's cue to emit a session_start envelope. Storage failures fall back
// to an in-memory token that is reused for the life of the manager.
func (m *SessionManager) Resolve() (token string, started bool) {
	now := m.now()

	stored, err := m.storage.Get(sessionTokenKey)
	if err != nil {
		return m.ephemeralToken()
	}

	if stored != "" && !m.idleExpired(now) {
		m.touch(now)
		return stored, false
	}

	token = m.newToken()
	if err := m.storage.Set(sessionTokenKey, token); err != nil {
		return m.ephemeralToken()
	}
	m.touch(now)
	return token, true
}

// idleExpired reports whether the stored last-activity stamp is stale. A
// missing or unreadable stamp counts as expired.
func (m *SessionManager) idleExpired(now time.Time) bool {
	raw, err := m.storage.Get(lastActivityKey)
	if err != nil || raw == "" {
		return true
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	last := time.UnixMilli(millis)
	return now.Sub(last) > m.idleExpiry
}

func (m *SessionManager) touch(now time.Time) {
	// Best effort: a failed write only shortens the session on the next load.
	_ = m.storage.Set(lastActivityKey, strconv.FormatInt(now.UnixMilli(), 10))
}

// ephemeralToken mints (once) and returns the storage-failure fallback token.
// fresh is true only on the minting call so the caller emits session_start
// exactly once for an ephemeral identity.
func (m *SessionManager) ephemeralToken() (token string, fresh bool) {
	if m.ephemeral == "" {
		m.ephemeral = ephemeralTokenPrefix + m.newEphemIDs()
		return m.ephemeral, true
	}
	return m.ephemeral, false
}

// MemoryStorage is an in-process Storage, useful for Go hosts and tests.
type MemoryStorage struct {
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, error) { return s.values[key], nil }

func (s *MemoryStorage) Set(key, value string) error {
	s.values[key] = value
	return nil
}
