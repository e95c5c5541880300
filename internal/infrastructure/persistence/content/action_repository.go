package content

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/actions"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

// SQLActionRepository reads engagement action definitions. The definitions
// are written by the dashboard; this side only serves them to collectors.
type SQLActionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLActionRepository creates a new instance of the repository.
func NewSQLActionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLActionRepository {
	return &SQLActionRepository{
		db:     db,
		logger: logger,
	}
}

const actionColumns = `id, project_id, name, type, is_active, priority,
	trigger_config, content, styling, url_patterns, url_match_type`

func scanAction(scan func(dest ...any) error) (*actions.Action, error) {
	var a actions.Action
	var isActive int
	var trigger, content, styling, urlPatterns string

	if err := scan(&a.ID, &a.ProjectID, &a.Name, &a.Type, &isActive, &a.Priority,
		&trigger, &content, &styling, &urlPatterns, &a.URLMatchType); err != nil {
		return nil, err
	}

	a.IsActive = isActive != 0
	a.Trigger = json.RawMessage(trigger)
	a.Content = json.RawMessage(content)
	a.Styling = json.RawMessage(styling)

	// A malformed pattern list degrades to "matches all URLs" on the client;
	// it must not fail the whole action list.
	if err := json.Unmarshal([]byte(urlPatterns), &a.URLPatterns); err != nil {
		a.URLPatterns = nil
	}
	return &a, nil
}

// FindActiveByProject returns enabled actions for a project, highest
// priority first.
func (r *SQLActionRepository) FindActiveByProject(projectID string) ([]*actions.Action, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM actions
		WHERE project_id = ? AND is_active = 1
		ORDER BY priority DESC, created_at ASC`, actionColumns)

	start := time.Now()

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		r.logger.Database().Error("Active action query failed", "error", err.Error(), "projectId", projectID)
		return nil, fmt.Errorf("failed to query active actions: %w", err)
	}
	defer rows.Close()

	var result []*actions.Action
	for rows.Next() {
		a, err := scanAction(rows.Scan)
		if err != nil {
			r.logger.Database().Error("Active action scan failed", "error", err.Error(), "projectId", projectID)
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return result, nil
}

// FindByID returns one action, or (nil, nil) when unknown.
func (r *SQLActionRepository) FindByID(actionID string) (*actions.Action, error) {
	query := fmt.Sprintf(`SELECT %s FROM actions WHERE id = ?`, actionColumns)

	a, err := scanAction(r.db.QueryRow(query, actionID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Action lookup failed", "error", err.Error(), "actionId", actionID)
		return nil, fmt.Errorf("failed to find action: %w", err)
	}
	return a, nil
}

// Create inserts an action definition. Management belongs to the dashboard;
// this exists for provisioning and tests.
func (r *SQLActionRepository) Create(a *actions.Action) error {
	const query = `
		INSERT INTO actions (id, project_id, name, type, is_active, priority,
			trigger_config, content, styling, url_patterns, url_match_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if a.ID == "" {
		a.ID = security.GenerateULID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.URLMatchType == "" {
		a.URLMatchType = actions.MatchContains
	}

	patterns, err := json.Marshal(a.URLPatterns)
	if err != nil {
		return fmt.Errorf("failed to encode url patterns: %w", err)
	}
	if a.URLPatterns == nil {
		patterns = []byte("[]")
	}

	isActive := 0
	if a.IsActive {
		isActive = 1
	}

	_, err = r.db.Exec(query, a.ID, a.ProjectID, a.Name, a.Type, isActive, a.Priority,
		rawOrEmpty(a.Trigger), rawOrEmpty(a.Content), rawOrEmpty(a.Styling),
		string(patterns), a.URLMatchType, a.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Action insert failed", "error", err.Error(), "actionId", a.ID)
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

func rawOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
