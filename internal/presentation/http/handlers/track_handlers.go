// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/services"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
)

// TrackHandlers contains the event ingestion and interaction recording
// endpoints. Responses on this surface are always body-less statuses: the
// collector fires and forgets and must never depend on response content.
type TrackHandlers struct {
	ingestionService   *services.IngestionService
	interactionService *services.InteractionService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewTrackHandlers creates tracking handlers with injected dependencies.
func NewTrackHandlers(
	ingestionService *services.IngestionService,
	interactionService *services.InteractionService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *TrackHandlers {
	return &TrackHandlers{
		ingestionService:   ingestionService,
		interactionService: interactionService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

// PostTrack handles POST /api/track - resolves the session and appends the
// behavioral event record.
func (h *TrackHandlers) PostTrack(c *gin.Context) {
	marker := h.perfTracker.StartOperation("track_event", "")
	defer marker.Complete()

	var env events.TrackEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.logger.Analytics().Debug("Track envelope binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.Status(http.StatusBadRequest)
		return
	}
	marker.AddMetadata("eventType", env.Type)

	reqCtx := services.RequestContext{
		UserAgent: c.GetHeader("User-Agent"),
		ClientIP:  clientAddress(c),
	}

	if err := h.ingestionService.ProcessEnvelope(&env, reqCtx); err != nil {
		marker.SetError(err)
		if errors.Is(err, services.ErrUnknownTrackingID) {
			h.logger.Analytics().Debug("Track rejected for unknown tracking id", "trackingId", env.TrackingID)
			c.Status(http.StatusBadRequest)
			return
		}
		h.logger.Analytics().Error("Track processing failed",
			"error", err.Error(),
			"type", env.Type,
			"trackingId", env.TrackingID)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// PostTrackAction handles POST /api/track-action - records an engagement
// interaction against a validated action/session pair.
func (h *TrackHandlers) PostTrackAction(c *gin.Context) {
	marker := h.perfTracker.StartOperation("track_action_interaction", "")
	defer marker.Complete()

	var req services.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Interaction().Debug("Interaction binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.Status(http.StatusBadRequest)
		return
	}
	marker.AddMetadata("interactionType", req.Type)

	if err := h.interactionService.RecordInteraction(&req); err != nil {
		marker.SetError(err)
		switch {
		case errors.Is(err, services.ErrUnknownTrackingID),
			errors.Is(err, services.ErrUnknownSession),
			errors.Is(err, services.ErrUnknownAction),
			errors.Is(err, services.ErrInvalidInteractionType):
			h.logger.Interaction().Debug("Interaction rejected",
				"error", err.Error(),
				"actionId", req.ActionID)
			c.Status(http.StatusBadRequest)
		default:
			h.logger.Interaction().Error("Interaction recording failed",
				"error", err.Error(),
				"actionId", req.ActionID)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// clientAddress resolves the visitor network address: proxy headers first,
// then the transport peer.
func clientAddress(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
