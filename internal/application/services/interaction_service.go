package services

import (
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/domain/repositories"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
)

// InteractionRequest is the wire format for POST /api/track-action.
type InteractionRequest struct {
	ActionID     string `json:"actionId" binding:"required"`
	TrackingID   string `json:"trackingId" binding:"required"`
	SessionToken string `json:"sessionToken" binding:"required"`
	Type         string `json:"type" binding:"required"`
	URL          string `json:"url"`
}

// InteractionService validates an action/session pair and appends an
// interaction record. Preconditions are evaluated in order and any failure
// leaves the store untouched.
type InteractionService struct {
	ingestion    *IngestionService
	sessions     repositories.SessionStore
	actions      repositories.ActionDirectory
	interactions repositories.InteractionStore
	logger       *logging.ChanneledLogger
}

// NewInteractionService creates an interaction service with injected dependencies.
func NewInteractionService(
	ingestion *IngestionService,
	sessions repositories.SessionStore,
	actions repositories.ActionDirectory,
	interactions repositories.InteractionStore,
	logger *logging.ChanneledLogger,
) *InteractionService {
	return &InteractionService{
		ingestion:    ingestion,
		sessions:     sessions,
		actions:      actions,
		interactions: interactions,
		logger:       logger,
	}
}

// RecordInteraction appends one engagement interaction. The display-once
// guarantee lives client-side; duplicates arriving here are stored as
// separate observed records.
func (s *InteractionService) RecordInteraction(req *InteractionRequest) error {
	if !events.ValidInteractionType(req.Type) {
		return ErrInvalidInteractionType
	}

	p, _, err := s.ingestion.ResolveProject(req.TrackingID)
	if err != nil {
		return err
	}

	action, err := s.actions.FindByID(req.ActionID)
	if err != nil {
		return fmt.Errorf("action lookup failed: %w", err)
	}
	if action == nil || action.ProjectID != p.ID {
		return ErrUnknownAction
	}

	sess, err := s.sessions.FindByToken(req.SessionToken)
	if err != nil {
		return fmt.Errorf("session lookup failed: %w", err)
	}
	if sess == nil || sess.ProjectID != p.ID {
		return ErrUnknownSession
	}

	err = s.interactions.StoreInteraction(&events.ActionInteraction{
		ActionID:  req.ActionID,
		ProjectID: p.ID,
		SessionID: sess.ID,
		Type:      req.Type,
		URL:       req.URL,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.logger.Interaction().Info("Action interaction recorded",
		"actionId", req.ActionID,
		"projectId", p.ID,
		"sessionId", sess.ID,
		"type", req.Type)
	return nil
}
