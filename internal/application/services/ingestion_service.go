package services

import (
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/project"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/session"
	"github.com/zapformai/zapform-analytics/internal/domain/repositories"
	"github.com/zapformai/zapform-analytics/internal/domain/services/device"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/caching"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

// RequestContext carries the transport-level facts the ingestion pipeline
// needs beyond the envelope itself.
type RequestContext struct {
	UserAgent string
	ClientIP  string
}

// IngestionService resolves tracking envelopes to sessions and routes them to
// the correct event class. It is stateless per request; the only shared
// mutable resource is the durable store.
type IngestionService struct {
	projects     repositories.ProjectDirectory
	sessions     repositories.SessionStore
	events       repositories.EventStore
	projectCache *caching.TTLStore[*project.Project]
	logger       *logging.ChanneledLogger
}

// NewIngestionService creates an ingestion service with injected dependencies.
func NewIngestionService(
	projects repositories.ProjectDirectory,
	sessions repositories.SessionStore,
	eventStore repositories.EventStore,
	projectCache *caching.TTLStore[*project.Project],
	logger *logging.ChanneledLogger,
) *IngestionService {
	return &IngestionService{
		projects:     projects,
		sessions:     sessions,
		events:       eventStore,
		projectCache: projectCache,
		logger:       logger,
	}
}

// ResolveProject maps a public tracking identifier to a project, consulting
// the read-mostly cache first. Returns ErrUnknownTrackingID when the
// identifier resolves to nothing. The bool reports a cache hit.
func (s *IngestionService) ResolveProject(trackingID string) (*project.Project, bool, error) {
	if cached, ok := s.projectCache.Get(trackingID); ok {
		return cached, true, nil
	}

	p, err := s.projects.FindByTrackingID(trackingID)
	if err != nil {
		return nil, false, fmt.Errorf("project resolution failed: %w", err)
	}
	if p == nil {
		return nil, false, ErrUnknownTrackingID
	}

	s.projectCache.Set(trackingID, p)
	return p, false, nil
}

// ProcessEnvelope is the full ingestion pipeline for one tracking envelope:
// resolve the project, resolve or create the session, then append the event
// record. Event writes happen only after session resolution succeeds; an
// unrecognized event type is accepted and dropped.
func (s *IngestionService) ProcessEnvelope(env *events.TrackEnvelope, reqCtx RequestContext) error {
	p, _, err := s.ResolveProject(env.TrackingID)
	if err != nil {
		return err
	}

	sess, err := s.resolveSession(p, env, reqCtx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	switch env.Type {
	case events.TypePageView, events.TypeSessionStart:
		return s.events.StorePageView(&events.PageView{
			ProjectID: p.ID,
			SessionID: sess.ID,
			URL:       env.URL,
			Referrer:  env.Referrer,
			CreatedAt: now,
		})

	case events.TypeClick:
		return s.events.StoreClickEvent(&events.ClickEvent{
			ProjectID:   p.ID,
			SessionID:   sess.ID,
			URL:         env.URL,
			ElementSel:  env.ElementSel,
			ElementText: truncate(env.ElementText, config.ElementTextMaxLength),
			XCoordinate: env.XCoordinate,
			YCoordinate: env.YCoordinate,
			CreatedAt:   now,
		})

	case events.TypeScroll:
		return s.events.StoreScrollEvent(&events.ScrollEvent{
			ProjectID:   p.ID,
			SessionID:   sess.ID,
			URL:         env.URL,
			ScrollDepth: env.ScrollDepth,
			MaxScroll:   env.MaxScroll,
			CreatedAt:   now,
		})

	default:
		// Forward compatibility: newer collectors may emit types this build
		// does not know (page_hide among them). The session update above
		// already happened, which is the useful part.
		s.logger.Analytics().Debug("Dropping unrecognized event type",
			"type", env.Type,
			"projectId", p.ID)
		return nil
	}
}

// resolveSession implements the idempotent resolve-or-create protocol. A new
// token gets a session created with device classification derived from the
// request's user agent, overridden field-by-field by client-supplied device
// info. An existing token gets its activity clock advanced.
func (s *IngestionService) resolveSession(p *project.Project, env *events.TrackEnvelope, reqCtx RequestContext) (*session.Session, error) {
	sess, err := s.sessions.FindByToken(env.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	now := time.Now().UTC()

	if sess == nil {
		detected := device.Classify(reqCtx.UserAgent)
		info := detected
		if env.DeviceInfo != nil {
			info = env.DeviceInfo.Merge(detected)
		}

		created, err := s.sessions.Create(&session.Session{
			ProjectID:    p.ID,
			SessionToken: env.SessionToken,
			Device:       info,
			IPAddress:    reqCtx.ClientIP,
			StartTime:    now,
			LastActivity: now,
			Duration:     0,
		})
		if err != nil {
			return nil, fmt.Errorf("session creation failed: %w", err)
		}

		s.logger.Analytics().Info("Session created",
			"sessionId", created.ID,
			"projectId", p.ID,
			"deviceType", created.Device.DeviceType,
			"browser", created.Device.Browser)
		return created, nil
	}

	sess.Touch(now)
	if err := s.sessions.UpdateActivity(sess.ID, sess.LastActivity, sess.Duration); err != nil {
		return nil, fmt.Errorf("session activity update failed: %w", err)
	}
	return sess, nil
}

func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
