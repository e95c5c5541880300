// Package repositories defines the persistence interfaces consumed by the
// application services. Concrete SQL implementations live under
// internal/infrastructure/persistence.
package repositories

import (
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/project"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/session"
)

// ProjectDirectory resolves public tracking identifiers to projects.
type ProjectDirectory interface {
	// FindByTrackingID returns (nil, nil) for an unknown tracking identifier.
	FindByTrackingID(trackingID string) (*project.Project, error)
}

// ActionDirectory serves action definitions for collectors.
type ActionDirectory interface {
	// FindActiveByProject returns enabled actions ordered by descending priority.
	FindActiveByProject(projectID string) ([]*actions.Action, error)
	// FindByID returns (nil, nil) for an unknown action.
	FindByID(actionID string) (*actions.Action, error)
}

// SessionStore owns the durable session records.
type SessionStore interface {
	// FindByToken returns (nil, nil) when no session holds the token.
	FindByToken(token string) (*session.Session, error)
	// Create inserts a new session. When a concurrent request already created
	// a session for the same token, the existing record is returned instead;
	// token uniqueness is enforced by the store, not by the caller.
	Create(s *session.Session) (*session.Session, error)
	// UpdateActivity persists last-activity and the derived duration.
	UpdateActivity(sessionID string, lastActivity time.Time, duration int64) error
}

// EventStore appends immutable behavioral event records.
type EventStore interface {
	StorePageView(pv *events.PageView) error
	StoreClickEvent(ce *events.ClickEvent) error
	StoreScrollEvent(se *events.ScrollEvent) error
}

// InteractionStore appends engagement-action interaction records.
type InteractionStore interface {
	StoreInteraction(ai *events.ActionInteraction) error
}
