package services

import (
	"fmt"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/domain/repositories"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/caching"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
)

// ActionService serves the active engagement-action list to collectors.
// Lists are cached per tracking identifier with the same lifetime the HTTP
// layer advertises via Cache-Control.
type ActionService struct {
	ingestion   *IngestionService
	actions     repositories.ActionDirectory
	actionCache *caching.TTLStore[[]*actions.Action]
	logger      *logging.ChanneledLogger
}

// NewActionService creates an action service with injected dependencies.
func NewActionService(
	ingestion *IngestionService,
	actionDir repositories.ActionDirectory,
	actionCache *caching.TTLStore[[]*actions.Action],
	logger *logging.ChanneledLogger,
) *ActionService {
	return &ActionService{
		ingestion:   ingestion,
		actions:     actionDir,
		actionCache: actionCache,
		logger:      logger,
	}
}

// GetActiveActions returns enabled actions for a tracking identifier,
// highest priority first. An unknown identifier yields an empty list, not an
// error: collectors on arbitrary pages must never see a failure from this
// path. The bool reports a cache hit.
func (s *ActionService) GetActiveActions(trackingID string) ([]*actions.Action, bool, error) {
	if cached, ok := s.actionCache.Get(trackingID); ok {
		return cached, true, nil
	}

	p, _, err := s.ingestion.ResolveProject(trackingID)
	if err == ErrUnknownTrackingID {
		s.logger.Actions().Debug("Active action fetch for unknown tracking id", "trackingId", trackingID)
		return []*actions.Action{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	list, err := s.actions.FindActiveByProject(p.ID)
	if err != nil {
		return nil, false, fmt.Errorf("active action fetch failed: %w", err)
	}
	if list == nil {
		list = []*actions.Action{}
	}

	s.actionCache.Set(trackingID, list)
	s.logger.Actions().Debug("Active actions loaded",
		"trackingId", trackingID,
		"projectId", p.ID,
		"count", len(list))
	return list, false, nil
}
