package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelopeLog struct {
	mu        sync.Mutex
	envelopes []Envelope
}

func (l *envelopeLog) add(env Envelope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.envelopes = append(l.envelopes, env)
}

func (l *envelopeLog) ofType(kind string) []Envelope {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Envelope
	for _, env := range l.envelopes {
		if env.Type == kind {
			out = append(out, env)
		}
	}
	return out
}

func newClientHarnessWithSessions(t *testing.T, sessions *SessionManager, opts ...ClientOption) (*Client, *envelopeLog, *fakeTimers) {
	t.Helper()
	log := &envelopeLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env Envelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		log.add(env)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	timers := &fakeTimers{}
	dispatcher := NewDispatcher(srv.URL, srv.Client())
	opts = append([]ClientOption{WithDebounceTimerFunc(timers.after)}, opts...)
	return NewClient("trk_test", dispatcher, sessions, opts...), log, timers
}

func newClientHarness(t *testing.T, opts ...ClientOption) (*Client, *envelopeLog, *fakeTimers) {
	t.Helper()
	return newClientHarnessWithSessions(t, NewSessionManager(NewMemoryStorage()), opts...)
}

func TestSessionStartEmittedOncePerFreshSession(t *testing.T) {
	device := &DeviceInfo{Browser: "Firefox", DeviceType: "desktop", ScreenWidth: 1920}
	client, log, _ := newClientHarness(t, WithDeviceInfo(device))

	ctx := context.Background()
	token := client.SessionToken(ctx)
	require.NotEmpty(t, token)
	assert.Equal(t, token, client.SessionToken(ctx))

	starts := log.ofType("session_start")
	require.Len(t, starts, 1)
	assert.Equal(t, token, starts[0].SessionToken)
	require.NotNil(t, starts[0].DeviceInfo)
	assert.Equal(t, "Firefox", starts[0].DeviceInfo.Browser)
	assert.Equal(t, 1920, starts[0].DeviceInfo.ScreenWidth)
}

func TestTrackPageViewCarriesSessionToken(t *testing.T) {
	client, log, _ := newClientHarness(t)

	client.TrackPageView(context.Background(), "https://example.com/pricing", "https://google.com/")

	views := log.ofType("pageview")
	require.Len(t, views, 1)
	assert.Equal(t, "https://example.com/pricing", views[0].URL)
	assert.Equal(t, "https://google.com/", views[0].Referrer)
	assert.NotEmpty(t, views[0].SessionToken)
	assert.Equal(t, "trk_test", views[0].TrackingID)
	assert.Len(t, log.ofType("session_start"), 1, "first event minted the session")
}

func TestTrackClickCarriesElementContext(t *testing.T) {
	client, log, _ := newClientHarness(t)

	client.TrackClick(context.Background(), "https://example.com/", "#signup", "Sign up", 120, 480)

	clicks := log.ofType("click")
	require.Len(t, clicks, 1)
	assert.Equal(t, "#signup", clicks[0].ElementSel)
	assert.Equal(t, "Sign up", clicks[0].ElementText)
	assert.Equal(t, 120, clicks[0].XCoordinate)
	assert.Equal(t, 480, clicks[0].YCoordinate)
}

func TestScrollDebounceEmitsSettledDepthOnly(t *testing.T) {
	client, log, timers := newClientHarness(t)

	ctx := context.Background()
	client.OnScroll(ctx, "https://example.com/", 20)
	client.OnScroll(ctx, "https://example.com/", 60)
	client.OnScroll(ctx, "https://example.com/", 45)

	assert.Empty(t, log.ofType("scroll"), "nothing emits before quiescence")

	// Only the last pending callback is live; earlier ones were canceled.
	timers.mu.Lock()
	last := timers.callbacks[len(timers.callbacks)-1]
	timers.mu.Unlock()
	last()

	scrolls := log.ofType("scroll")
	require.Len(t, scrolls, 1)
	assert.Equal(t, 45, scrolls[0].ScrollDepth, "latest depth")
	assert.Equal(t, 60, scrolls[0].MaxScroll, "running maximum")
}

func TestEventsRotateIdleExpiredToken(t *testing.T) {
	now := time.Now()
	sessions := NewSessionManager(NewMemoryStorage(), WithClock(func() time.Time { return now }))
	client, log, _ := newClientHarnessWithSessions(t, sessions)

	ctx := context.Background()
	client.TrackPageView(ctx, "https://example.com/", "")

	views := log.ofType("pageview")
	require.Len(t, views, 1)
	first := views[0].SessionToken

	now = now.Add(40 * time.Minute)
	client.TrackClick(ctx, "https://example.com/", "#cta", "Go", 1, 2)

	clicks := log.ofType("click")
	require.Len(t, clicks, 1)
	assert.NotEqual(t, first, clicks[0].SessionToken, "idle-expired token must never be reused")
	assert.Len(t, log.ofType("session_start"), 2, "rotation begins a new session")
}

func TestEventsKeepTokenWhileActive(t *testing.T) {
	now := time.Now()
	sessions := NewSessionManager(NewMemoryStorage(), WithClock(func() time.Time { return now }))
	client, log, _ := newClientHarnessWithSessions(t, sessions)

	ctx := context.Background()
	client.TrackPageView(ctx, "https://example.com/", "")

	// Each event rewrites last activity, so steady traffic never expires.
	for i := 0; i < 3; i++ {
		now = now.Add(20 * time.Minute)
		client.TrackClick(ctx, "https://example.com/", "#cta", "Go", 1, 2)
	}

	assert.Len(t, log.ofType("session_start"), 1)
	tokens := map[string]bool{}
	for _, env := range log.ofType("click") {
		tokens[env.SessionToken] = true
	}
	assert.Len(t, tokens, 1, "active session keeps its token")
}

func TestPageHideEmitsMarker(t *testing.T) {
	client, log, _ := newClientHarness(t)

	client.PageHide(context.Background(), "https://example.com/checkout")

	hides := log.ofType("page_hide")
	require.Len(t, hides, 1)
	assert.Equal(t, "https://example.com/checkout", hides[0].URL)
}
