// Package events defines the behavioral event records written by the
// ingestion pipeline. Records are append-only and immutable once written;
// timestamps are assigned server-side.
package events

import (
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/session"
)

// Envelope event types accepted on the tracking endpoint. Unrecognized types
// are accepted and dropped for forward compatibility.
const (
	TypePageView     = "pageview"
	TypeSessionStart = "session_start"
	TypeClick        = "click"
	TypeScroll       = "scroll"
	TypePageHide     = "page_hide"
)

// Interaction kinds recorded against engagement actions.
const (
	InteractionImpression = "impression"
	InteractionClick      = "click"
	InteractionDismiss    = "dismiss"
	InteractionConversion = "conversion"
)

// ValidInteractionType reports whether t is a recordable interaction kind.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionImpression, InteractionClick, InteractionDismiss, InteractionConversion:
		return true
	}
	return false
}

// TrackEnvelope is the wire format for POST /api/track. Everything beyond
// type, trackingId and sessionToken is event-specific and optional.
type TrackEnvelope struct {
	Type         string              `json:"type" binding:"required"`
	TrackingID   string              `json:"trackingId" binding:"required"`
	SessionToken string              `json:"sessionToken" binding:"required"`
	Timestamp    string              `json:"timestamp,omitempty"` // Client clock, informational only
	URL          string              `json:"url,omitempty"`
	Referrer     string              `json:"referrer,omitempty"`
	ElementSel   string              `json:"elementSelector,omitempty"`
	ElementText  string              `json:"elementText,omitempty"`
	XCoordinate  int                 `json:"xCoordinate,omitempty"`
	YCoordinate  int                 `json:"yCoordinate,omitempty"`
	ScrollDepth  int                 `json:"scrollDepth,omitempty"`
	MaxScroll    int                 `json:"maxScroll,omitempty"`
	DeviceInfo   *session.DeviceInfo `json:"deviceInfo,omitempty"`
}

// PageView is one page view within a session.
type PageView struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	SessionID string    `json:"sessionId"`
	URL       string    `json:"url"`
	Referrer  string    `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClickEvent is one recorded click with its element context.
type ClickEvent struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	SessionID   string    `json:"sessionId"`
	URL         string    `json:"url"`
	ElementSel  string    `json:"elementSelector,omitempty"`
	ElementText string    `json:"elementText,omitempty"`
	XCoordinate int       `json:"xCoordinate"`
	YCoordinate int       `json:"yCoordinate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScrollEvent is one debounced scroll-depth sample.
type ScrollEvent struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	SessionID   string    `json:"sessionId"`
	URL         string    `json:"url"`
	ScrollDepth int       `json:"scrollDepth"`
	MaxScroll   int       `json:"maxScroll"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActionInteraction is one observed engagement-action interaction. Raw counts
// are observed, not deduplicated; display-once is a client-side guarantee.
type ActionInteraction struct {
	ID        string    `json:"id"`
	ActionID  string    `json:"actionId"`
	ProjectID string    `json:"projectId"`
	SessionID string    `json:"sessionId"`
	Type      string    `json:"type"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
