package analytics

import (
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/events"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

// SQLEventRepository handles real-time behavioral event persistence.
// All records are append-only; nothing here updates or deletes.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// StorePageView appends a page view record.
func (r *SQLEventRepository) StorePageView(pv *events.PageView) error {
	const query = `
		INSERT INTO page_views (id, project_id, session_id, url, referrer, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if pv.ID == "" {
		pv.ID = security.GenerateULID()
	}

	start := time.Now()
	r.logger.Database().Debug("Executing page view insert",
		"pageViewId", pv.ID,
		"projectId", pv.ProjectID,
		"sessionId", pv.SessionID)

	_, err := r.db.Exec(query, pv.ID, pv.ProjectID, pv.SessionID, pv.URL, pv.Referrer,
		pv.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Page view insert failed",
			"error", err.Error(),
			"pageViewId", pv.ID,
			"projectId", pv.ProjectID,
			"sessionId", pv.SessionID)
		return fmt.Errorf("failed to store page view: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// StoreClickEvent appends a click record.
func (r *SQLEventRepository) StoreClickEvent(ce *events.ClickEvent) error {
	const query = `
		INSERT INTO click_events (id, project_id, session_id, url,
			element_selector, element_text, x_coordinate, y_coordinate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if ce.ID == "" {
		ce.ID = security.GenerateULID()
	}

	start := time.Now()
	r.logger.Database().Debug("Executing click event insert",
		"clickEventId", ce.ID,
		"projectId", ce.ProjectID,
		"sessionId", ce.SessionID,
		"elementSelector", ce.ElementSel)

	_, err := r.db.Exec(query, ce.ID, ce.ProjectID, ce.SessionID, ce.URL,
		ce.ElementSel, ce.ElementText, ce.XCoordinate, ce.YCoordinate,
		ce.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Click event insert failed",
			"error", err.Error(),
			"clickEventId", ce.ID,
			"projectId", ce.ProjectID,
			"sessionId", ce.SessionID)
		return fmt.Errorf("failed to store click event: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// StoreScrollEvent appends a scroll-depth sample.
func (r *SQLEventRepository) StoreScrollEvent(se *events.ScrollEvent) error {
	const query = `
		INSERT INTO scroll_events (id, project_id, session_id, url,
			scroll_depth, max_scroll, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if se.ID == "" {
		se.ID = security.GenerateULID()
	}

	start := time.Now()
	r.logger.Database().Debug("Executing scroll event insert",
		"scrollEventId", se.ID,
		"projectId", se.ProjectID,
		"sessionId", se.SessionID,
		"scrollDepth", se.ScrollDepth)

	_, err := r.db.Exec(query, se.ID, se.ProjectID, se.SessionID, se.URL,
		se.ScrollDepth, se.MaxScroll, se.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		r.logger.Database().Error("Scroll event insert failed",
			"error", err.Error(),
			"scrollEventId", se.ID,
			"projectId", se.ProjectID,
			"sessionId", se.SessionID)
		return fmt.Errorf("failed to store scroll event: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
