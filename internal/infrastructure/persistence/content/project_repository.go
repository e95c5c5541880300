// Package content provides the concrete SQL-based implementations for the
// read-mostly directories: projects and engagement action definitions.
package content

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/project"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLProjectRepository resolves tracking identifiers against the projects table.
type SQLProjectRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProjectRepository creates a new instance of the repository.
func NewSQLProjectRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProjectRepository {
	return &SQLProjectRepository{
		db:     db,
		logger: logger,
	}
}

// FindByTrackingID returns the project owning a public tracking identifier,
// or (nil, nil) when the identifier is unknown.
func (r *SQLProjectRepository) FindByTrackingID(trackingID string) (*project.Project, error) {
	const query = `
		SELECT id, name, COALESCE(domain, ''), tracking_id, created_at
		FROM projects WHERE tracking_id = ?`

	start := time.Now()

	var p project.Project
	var createdAt string
	err := r.db.QueryRow(query, trackingID).Scan(&p.ID, &p.Name, &p.Domain, &p.TrackingID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Project lookup failed", "error", err.Error(), "trackingId", trackingID)
		return nil, fmt.Errorf("failed to find project by tracking id: %w", err)
	}
	if t, perr := time.Parse(sqliteTimeLayout, createdAt); perr == nil {
		p.CreatedAt = t
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return &p, nil
}

// Create inserts a project record. Project management belongs to the
// dashboard; this exists for provisioning and tests.
func (r *SQLProjectRepository) Create(p *project.Project) error {
	const query = `
		INSERT INTO projects (id, name, domain, tracking_id, created_at)
		VALUES (?, ?, ?, ?, ?)`

	if p.ID == "" {
		p.ID = security.GenerateULID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(query, p.ID, p.Name, p.Domain, p.TrackingID, p.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Project insert failed", "error", err.Error(), "trackingId", p.TrackingID)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}
