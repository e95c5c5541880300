package analytics

import (
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

// SQLInteractionRepository appends engagement-action interaction records.
// No uniqueness is enforced: duplicate impressions from a misbehaving client
// are stored as separate observed records.
type SQLInteractionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLInteractionRepository creates a new instance of the repository.
func NewSQLInteractionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLInteractionRepository {
	return &SQLInteractionRepository{
		db:     db,
		logger: logger,
	}
}

// StoreInteraction appends one interaction record.
func (r *SQLInteractionRepository) StoreInteraction(ai *events.ActionInteraction) error {
	const query = `
		INSERT INTO action_interactions (id, action_id, project_id, session_id, type, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if ai.ID == "" {
		ai.ID = security.GenerateULID()
	}

	start := time.Now()
	r.logger.Database().Debug("Executing action interaction insert",
		"interactionId", ai.ID,
		"actionId", ai.ActionID,
		"projectId", ai.ProjectID,
		"sessionId", ai.SessionID,
		"type", ai.Type)

	_, err := r.db.Exec(query, ai.ID, ai.ActionID, ai.ProjectID, ai.SessionID, ai.Type, ai.URL,
		ai.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Action interaction insert failed",
			"error", err.Error(),
			"interactionId", ai.ID,
			"actionId", ai.ActionID,
			"sessionId", ai.SessionID)
		return fmt.Errorf("failed to store action interaction: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
