package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/services"
	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

// ActionHandlers serves the active engagement-action list to collectors.
type ActionHandlers struct {
	actionService *services.ActionService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// ActiveActionsResponse is the wire format for GET /api/actions/active/:trackingId.
type ActiveActionsResponse struct {
	Actions []*actions.Action `json:"actions"`
}

// NewActionHandlers creates action handlers with injected dependencies.
func NewActionHandlers(actionService *services.ActionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ActionHandlers {
	return &ActionHandlers{
		actionService: actionService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetActiveActions handles GET /api/actions/active/:trackingId. This endpoint
// never errors toward the collector: an unknown tracking identifier, and even
// a storage failure, degrade to an empty list so a misconfigured embed cannot
// break the hosting page.
func (h *ActionHandlers) GetActiveActions(c *gin.Context) {
	trackingID := c.Param("trackingId")

	marker := h.perfTracker.StartOperation("fetch_active_actions", "")
	defer marker.Complete()

	list, cached, err := h.actionService.GetActiveActions(trackingID)
	if err != nil {
		h.logger.Actions().Error("Active action fetch failed",
			"error", err.Error(),
			"trackingId", trackingID)
		marker.SetError(err)
		list = []*actions.Action{}
	}
	if cached {
		marker.AddCacheHit()
	} else {
		marker.AddCacheMiss()
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(config.ActiveActionsTTL.Seconds())))
	c.JSON(http.StatusOK, ActiveActionsResponse{Actions: list})
}
