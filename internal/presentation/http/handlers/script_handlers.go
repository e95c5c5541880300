package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/services"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

const javascriptContentType = "application/javascript; charset=utf-8"

// ScriptHandlers serves the parameterized collector script to tracked pages.
type ScriptHandlers struct {
	scriptService *services.ScriptService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewScriptHandlers creates script handlers with injected dependencies.
func NewScriptHandlers(scriptService *services.ScriptService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScriptHandlers {
	return &ScriptHandlers{
		scriptService: scriptService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetTrackingScript handles GET /api/tracking-script/:trackingId. The body is
// always JavaScript, error cases included, because the response lands in a
// <script> tag on a third-party page.
func (h *ScriptHandlers) GetTrackingScript(c *gin.Context) {
	trackingID := c.Param("trackingId")

	marker := h.perfTracker.StartOperation("serve_tracking_script", "")
	defer marker.Complete()

	script, err := h.scriptService.BuildScript(trackingID)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, services.ErrUnknownTrackingID) {
			c.Data(http.StatusNotFound, javascriptContentType, []byte("// Project not found\n"))
			return
		}
		h.logger.System().Error("Tracking script generation failed",
			"error", err.Error(),
			"trackingId", trackingID)
		c.Data(http.StatusInternalServerError, javascriptContentType, []byte("// Error loading tracking script\n"))
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(config.TrackingScriptTTL.Seconds())))
	c.Data(http.StatusOK, javascriptContentType, []byte(script))
}
