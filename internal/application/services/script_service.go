package services

import (
	"strconv"
	"strings"

	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/presentation/templates"
	"github.com/zapformai/zapform-analytics/pkg/config"
)

// ScriptService renders the parameterized tracking script for a project. The
// script is generated per request from the embedded template, so the public
// base endpoint stays configurable without rebuilding.
type ScriptService struct {
	ingestion *IngestionService
	baseURL   string
	logger    *logging.ChanneledLogger
}

// NewScriptService creates a script service with injected dependencies.
func NewScriptService(ingestion *IngestionService, baseURL string, logger *logging.ChanneledLogger) *ScriptService {
	return &ScriptService{
		ingestion: ingestion,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// BuildScript substitutes the tracking identifier, API endpoint and session
// idle window into the collector template. Returns ErrUnknownTrackingID when
// the identifier does not resolve.
func (s *ScriptService) BuildScript(trackingID string) (string, error) {
	if _, _, err := s.ingestion.ResolveProject(trackingID); err != nil {
		return "", err
	}

	idleMs := strconv.FormatInt(config.SessionIdleExpiry.Milliseconds(), 10)

	script := templates.TrackingScript
	script = strings.ReplaceAll(script, templates.PlaceholderTrackingID, trackingID)
	script = strings.ReplaceAll(script, templates.PlaceholderAPIEndpoint, s.baseURL)
	script = strings.ReplaceAll(script, templates.PlaceholderSessionIdleMs, idleMs)
	return script, nil
}
