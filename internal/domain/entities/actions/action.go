// Package actions defines engagement action entities. Actions are managed by
// the dashboard; the tracking runtime reads them and serves the active set to
// collectors. Trigger, content and styling are opaque JSON documents passed
// through to the client untouched.
package actions

import (
	"encoding/json"
	"time"
)

// URL match modes understood by collectors.
const (
	MatchExact      = "exact"
	MatchContains   = "contains"
	MatchStartsWith = "startsWith"
	MatchRegex      = "regex"
)

// Trigger kinds understood by collectors.
const (
	TriggerTime   = "time"
	TriggerScroll = "scroll"
	TriggerExit   = "exit"
)

// Action is one configured engagement action (popup, banner or modal).
type Action struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"-"`
	Name         string          `json:"-"`
	Type         string          `json:"type"`
	IsActive     bool            `json:"-"`
	Priority     int             `json:"priority"`
	Trigger      json.RawMessage `json:"trigger"`
	Content      json.RawMessage `json:"content"`
	Styling      json.RawMessage `json:"styling"`
	URLPatterns  []string        `json:"urlPatterns"`
	URLMatchType string          `json:"urlMatchType"`
	CreatedAt    time.Time       `json:"-"`
}
