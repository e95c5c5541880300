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

func TestSendPostsEnvelopeAsJSON(t *testing.T) {
	var (
		mu       sync.Mutex
		received []Envelope
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/track", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var env Envelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		mu.Lock()
		received = append(received, env)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL+"/", srv.Client()) // trailing slash is normalized
	d.Send(context.Background(), &Envelope{
		Type:         "pageview",
		TrackingID:   "trk_1",
		SessionToken: "tok_1",
		URL:          "https://example.com/",
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "pageview", received[0].Type)
	assert.Equal(t, "trk_1", received[0].TrackingID)
	assert.Equal(t, "https://example.com/", received[0].URL)
}

func TestSendInteractionTargetsTrackActionPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, srv.Client())
	d.SendInteraction(context.Background(), &Interaction{ActionID: "a1", Type: "impression"})
	assert.Equal(t, "/api/track-action", gotPath)
}

func TestSendSwallowsTransportErrors(t *testing.T) {
	d := NewDispatcher("http://127.0.0.1:1", &http.Client{Timeout: 200 * time.Millisecond})
	assert.NotPanics(t, func() {
		d.Send(context.Background(), &Envelope{Type: "pageview"})
	})
}

func TestSendSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, srv.Client())
	assert.NotPanics(t, func() {
		d.Send(context.Background(), &Envelope{Type: "pageview"})
	})
}
