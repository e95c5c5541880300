// Package project defines the project directory entities. Projects are
// managed elsewhere; the tracking runtime only resolves public tracking
// identifiers to projects.
package project

import "time"

// Project represents one tracked website.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Domain     string    `json:"domain,omitempty"`
	TrackingID string    `json:"trackingId"`
	CreatedAt  time.Time `json:"createdAt"`
}
