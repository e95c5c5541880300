// Package services provides business logic orchestration between the HTTP
// surface and the persistence layer.
package services

import "errors"

// Sentinel errors that the presentation layer maps to 400-class responses.
// Anything else surfaces as a storage failure (500).
var (
	ErrUnknownTrackingID      = errors.New("unknown tracking identifier")
	ErrUnknownSession         = errors.New("unknown session token")
	ErrUnknownAction          = errors.New("unknown action identifier")
	ErrInvalidInteractionType = errors.New("invalid interaction type")
)
