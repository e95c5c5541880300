package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// DefaultDispatchTimeout bounds a single fire-and-forget emit.
const DefaultDispatchTimeout = 5 * time.Second

// Envelope is the wire format accepted by POST /api/track. Everything beyond
// Type, TrackingID and SessionToken is event-specific.
type Envelope struct {
	Type         string      `json:"type"`
	TrackingID   string      `json:"trackingId"`
	SessionToken string      `json:"sessionToken"`
	Timestamp    string      `json:"timestamp,omitempty"`
	URL          string      `json:"url,omitempty"`
	Referrer     string      `json:"referrer,omitempty"`
	ElementSel   string      `json:"elementSelector,omitempty"`
	ElementText  string      `json:"elementText,omitempty"`
	XCoordinate  int         `json:"xCoordinate,omitempty"`
	YCoordinate  int         `json:"yCoordinate,omitempty"`
	ScrollDepth  int         `json:"scrollDepth,omitempty"`
	MaxScroll    int         `json:"maxScroll,omitempty"`
	DeviceInfo   *DeviceInfo `json:"deviceInfo,omitempty"`
}

// DeviceInfo is the client-observed device description attached to
// session_start envelopes.
type DeviceInfo struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
	ScreenWidth    int    `json:"screenWidth,omitempty"`
	ScreenHeight   int    `json:"screenHeight,omitempty"`
}

// Interaction is the wire format accepted by POST /api/track-action.
type Interaction struct {
	ActionID     string `json:"actionId"`
	TrackingID   string `json:"trackingId"`
	SessionToken string `json:"sessionToken"`
	Type         string `json:"type"`
	URL          string `json:"url,omitempty"`
}

// Dispatcher emits envelopes to the ingestion API. Emission is strictly
// one-way: errors are swallowed, nothing is retried, and session state is
// never touched.
type Dispatcher struct {
	baseURL string
	client  *http.Client
}

// NewDispatcher builds a dispatcher against the given API base URL. A nil
// client gets a keep-alive default with a bounded timeout.
func NewDispatcher(baseURL string, client *http.Client) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultDispatchTimeout}
	}
	return &Dispatcher{baseURL: trimTrailingSlash(baseURL), client: client}
}

// Send emits one event envelope. Failures of any kind are absorbed.
func (d *Dispatcher) Send(ctx context.Context, env *Envelope) {
	d.post(ctx, d.baseURL+"/api/track", env)
}

// SendInteraction emits one engagement-action interaction.
func (d *Dispatcher) SendInteraction(ctx context.Context, in *Interaction) {
	d.post(ctx, d.baseURL+"/api/track-action", in)
}

func (d *Dispatcher) post(ctx context.Context, url string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
