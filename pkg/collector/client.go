package collector

import (
	"context"
	"sync"
	"time"
)

// DefaultScrollDebounce is the quiescence window before a scroll-depth
// sample is emitted.
const DefaultScrollDebounce = time.Second

// Client is the page-level tracking half of the collector: it resolves the
// session once, emits session_start when a new session begins, and forwards
// behavioral events to the dispatcher. Scroll telemetry is debounced so only
// the settled depth of a scroll burst is emitted.
type Client struct {
	trackingID string
	dispatcher *Dispatcher
	sessions   *SessionManager
	device     *DeviceInfo
	debounce   time.Duration
	afterFunc  func(d time.Duration, f func()) (stop func())

	mu          sync.Mutex
	maxScroll   int
	pendingStop func()
}

// ClientOption adjusts a Client.
type ClientOption func(*Client)

// WithDeviceInfo attaches the client-observed device description emitted on
// session_start.
func WithDeviceInfo(device *DeviceInfo) ClientOption {
	return func(c *Client) { c.device = device }
}

// WithScrollDebounce overrides the scroll quiescence window.
func WithScrollDebounce(d time.Duration) ClientOption {
	return func(c *Client) { c.debounce = d }
}

// WithDebounceTimerFunc substitutes the scheduler used for the scroll
// debounce.
func WithDebounceTimerFunc(after func(d time.Duration, f func()) (stop func())) ClientOption {
	return func(c *Client) { c.afterFunc = after }
}

// NewClient builds a page-level tracking client.
func NewClient(trackingID string, dispatcher *Dispatcher, sessions *SessionManager, opts ...ClientOption) *Client {
	c := &Client{
		trackingID: trackingID,
		dispatcher: dispatcher,
		sessions:   sessions,
		debounce:   DefaultScrollDebounce,
	}
	c.afterFunc = func(d time.Duration, f func()) func() {
		t := time.AfterFunc(d, f)
		return func() { t.Stop() }
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionToken resolves the session for the event about to be emitted. Every
// event goes through here, so each one rewrites last activity and an
// idle-expired token rotates instead of being reused. A fresh session emits
// session_start before the caller's event.
func (c *Client) SessionToken(ctx context.Context) string {
	c.mu.Lock()
	token, started := c.sessions.Resolve()
	c.mu.Unlock()

	if started {
		c.dispatcher.Send(ctx, &Envelope{
			Type:         "session_start",
			TrackingID:   c.trackingID,
			SessionToken: token,
			Timestamp:    c.timestamp(),
			DeviceInfo:   c.device,
		})
	}
	return token
}

// TrackPageView emits one page view.
func (c *Client) TrackPageView(ctx context.Context, url, referrer string) {
	c.dispatcher.Send(ctx, &Envelope{
		Type:         "pageview",
		TrackingID:   c.trackingID,
		SessionToken: c.SessionToken(ctx),
		Timestamp:    c.timestamp(),
		URL:          url,
		Referrer:     referrer,
	})
}

// TrackClick emits one click with its element context.
func (c *Client) TrackClick(ctx context.Context, url, selector, text string, x, y int) {
	c.dispatcher.Send(ctx, &Envelope{
		Type:         "click",
		TrackingID:   c.trackingID,
		SessionToken: c.SessionToken(ctx),
		Timestamp:    c.timestamp(),
		URL:          url,
		ElementSel:   selector,
		ElementText:  text,
		XCoordinate:  x,
		YCoordinate:  y,
	})
}

// OnScroll records one scroll-depth sample. Each sample restarts the
// debounce; after the quiescence window the latest depth and the running
// maximum are emitted in a single scroll envelope.
func (c *Client) OnScroll(ctx context.Context, url string, depthPercent int) {
	c.mu.Lock()
	if depthPercent > c.maxScroll {
		c.maxScroll = depthPercent
	}
	maxScroll := c.maxScroll
	if c.pendingStop != nil {
		c.pendingStop()
	}
	c.pendingStop = c.afterFunc(c.debounce, func() {
		c.mu.Lock()
		c.pendingStop = nil
		c.mu.Unlock()
		c.dispatcher.Send(context.Background(), &Envelope{
			Type:         "scroll",
			TrackingID:   c.trackingID,
			SessionToken: c.SessionToken(ctx),
			Timestamp:    c.timestamp(),
			URL:          url,
			ScrollDepth:  depthPercent,
			MaxScroll:    maxScroll,
		})
	})
	c.mu.Unlock()
}

// PageHide emits the page_hide marker on visibility loss. The server accepts
// and drops it; emitting it still refreshes the session's last activity.
func (c *Client) PageHide(ctx context.Context, url string) {
	c.dispatcher.Send(ctx, &Envelope{
		Type:         "page_hide",
		TrackingID:   c.trackingID,
		SessionToken: c.SessionToken(ctx),
		Timestamp:    c.timestamp(),
		URL:          url,
	})
}

func (c *Client) timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
