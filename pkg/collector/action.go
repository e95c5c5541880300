package collector

import "encoding/json"

// Trigger kinds carried in an action's trigger document.
const (
	TriggerTime   = "time"
	TriggerScroll = "scroll"
	TriggerExit   = "exit"
)

// ActionTypeConversion marks actions whose CTA activation records a
// conversion instead of a click.
const ActionTypeConversion = "conversion"

// Trigger defaults applied when the configuration document omits a field.
const (
	DefaultTimeDelayMs      = 3000
	DefaultScrollPercentage = 50
)

// Exit-intent sensitivity names and the pointer-Y thresholds they map to.
const (
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

// Action is one engagement action as served by the active-actions endpoint.
// Trigger, content and styling arrive as opaque documents; the engine parses
// the trigger, the presenter interprets the rest.
type Action struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Priority     int             `json:"priority"`
	Trigger      json.RawMessage `json:"trigger"`
	Content      json.RawMessage `json:"content"`
	Styling      json.RawMessage `json:"styling"`
	URLPatterns  []string        `json:"urlPatterns"`
	URLMatchType string          `json:"urlMatchType"`
}

// TriggerConfig is the parsed form of an action's trigger document.
type TriggerConfig struct {
	Type        string `json:"type"`
	DelayMs     int    `json:"delayMs"`
	Percentage  int    `json:"percentage"`
	Sensitivity string `json:"sensitivity"`
}

// ContentConfig carries the content fields the engine itself consults.
type ContentConfig struct {
	Dismissable *bool `json:"dismissable"`
}

// ParseTrigger decodes the action's trigger document, applying defaults. A
// malformed or absent document yields a config whose Type falls back to the
// action's own type field.
func (a *Action) ParseTrigger() TriggerConfig {
	var cfg TriggerConfig
	if len(a.Trigger) > 0 {
		// Malformed documents leave the zero value in place.
		_ = json.Unmarshal(a.Trigger, &cfg)
	}
	if cfg.Type == "" {
		cfg.Type = a.Type
	}
	if cfg.DelayMs <= 0 {
		cfg.DelayMs = DefaultTimeDelayMs
	}
	if cfg.Percentage <= 0 {
		cfg.Percentage = DefaultScrollPercentage
	}
	if cfg.Sensitivity == "" {
		cfg.Sensitivity = SensitivityMedium
	}
	return cfg
}

// Dismissable reports whether the action may be dismissed. Absent
// configuration defaults to true.
func (a *Action) Dismissable() bool {
	if len(a.Content) == 0 {
		return true
	}
	var cfg ContentConfig
	if err := json.Unmarshal(a.Content, &cfg); err != nil {
		return true
	}
	return cfg.Dismissable == nil || *cfg.Dismissable
}

// ExitThreshold maps an exit-intent sensitivity to the pointer-Y band, in
// pixels from the top edge, that counts as an exit gesture.
func ExitThreshold(sensitivity string) int {
	switch sensitivity {
	case SensitivityLow:
		return 100
	case SensitivityHigh:
		return 10
	default:
		return 50
	}
}
