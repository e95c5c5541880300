// Package session provides domain entities for anonymous visitor sessions.
// A session is identified by a client-minted opaque token and is live while
// its last activity falls within the idle-expiry window.
package session

import "time"

// DeviceInfo describes the classified device for a session. Client-supplied
// fields override server-side user-agent detection field by field.
type DeviceInfo struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
	ScreenWidth    int    `json:"screenWidth,omitempty"`
	ScreenHeight   int    `json:"screenHeight,omitempty"`
}

// Merge returns d with any empty field filled from fallback.
func (d DeviceInfo) Merge(fallback DeviceInfo) DeviceInfo {
	if d.Browser == "" {
		d.Browser = fallback.Browser
	}
	if d.BrowserVersion == "" {
		d.BrowserVersion = fallback.BrowserVersion
	}
	if d.OS == "" {
		d.OS = fallback.OS
	}
	if d.OSVersion == "" {
		d.OSVersion = fallback.OSVersion
	}
	if d.DeviceType == "" {
		d.DeviceType = fallback.DeviceType
	}
	if d.ScreenWidth == 0 {
		d.ScreenWidth = fallback.ScreenWidth
	}
	if d.ScreenHeight == 0 {
		d.ScreenHeight = fallback.ScreenHeight
	}
	return d
}

// Session represents one anonymous browsing session within a project.
type Session struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	SessionToken string     `json:"sessionToken"`
	Device       DeviceInfo `json:"device"`
	IPAddress    string     `json:"ipAddress,omitempty"`
	StartTime    time.Time  `json:"startTime"`
	LastActivity time.Time  `json:"lastActivity"`
	Duration     int64      `json:"duration"` // Seconds since start, clamped non-negative
}

// Touch updates last activity and recomputes the accumulated duration.
// Duration is derived, not authoritative, so a clock skewed behind the start
// time clamps to zero rather than going negative.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
	duration := int64(now.Sub(s.StartTime).Seconds())
	if duration < 0 {
		duration = 0
	}
	s.Duration = duration
}
