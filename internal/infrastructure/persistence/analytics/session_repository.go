// Package analytics provides the concrete SQL-based implementations for
// session and behavioral event persistence.
//
// PURPOSE: store sessions and real-time visitor events as they arrive.
// Aggregation over these tables belongs to the dashboard layer, not here.
package analytics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/session"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/persistence/database"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLSessionRepository owns the sessions table.
type SQLSessionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSessionRepository creates a new instance of the repository.
func NewSQLSessionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSessionRepository {
	return &SQLSessionRepository{
		db:     db,
		logger: logger,
	}
}

// FindByToken returns the session holding a token, or (nil, nil) when none
// does.
func (r *SQLSessionRepository) FindByToken(token string) (*session.Session, error) {
	const query = `
		SELECT id, project_id, session_token,
			COALESCE(browser, ''), COALESCE(browser_version, ''),
			COALESCE(os, ''), COALESCE(os_version, ''),
			COALESCE(device_type, ''), COALESCE(screen_width, 0), COALESCE(screen_height, 0),
			COALESCE(ip_address, ''), start_time, last_activity, duration
		FROM sessions WHERE session_token = ?`

	start := time.Now()

	var s session.Session
	var startTime, lastActivity string
	err := r.db.QueryRow(query, token).Scan(
		&s.ID, &s.ProjectID, &s.SessionToken,
		&s.Device.Browser, &s.Device.BrowserVersion,
		&s.Device.OS, &s.Device.OSVersion,
		&s.Device.DeviceType, &s.Device.ScreenWidth, &s.Device.ScreenHeight,
		&s.IPAddress, &startTime, &lastActivity, &s.Duration,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Session lookup failed", "error", err.Error())
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	if t, perr := time.Parse(sqliteTimeLayout, startTime); perr == nil {
		s.StartTime = t.UTC()
	}
	if t, perr := time.Parse(sqliteTimeLayout, lastActivity); perr == nil {
		s.LastActivity = t.UTC()
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return &s, nil
}

// Create inserts a new session. The sessions.session_token unique index is
// the arbiter for concurrent creation: when the insert loses that race, the
// winner's record is read back and returned, and the caller proceeds as if
// the session had already existed.
func (r *SQLSessionRepository) Create(s *session.Session) (*session.Session, error) {
	const query = `
		INSERT INTO sessions (id, project_id, session_token,
			browser, browser_version, os, os_version, device_type,
			screen_width, screen_height, ip_address,
			start_time, last_activity, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if s.ID == "" {
		s.ID = security.GenerateULID()
	}

	start := time.Now()
	r.logger.Database().Debug("Executing session insert",
		"sessionId", s.ID,
		"projectId", s.ProjectID)

	_, err := r.db.Exec(
		query,
		s.ID, s.ProjectID, s.SessionToken,
		s.Device.Browser, s.Device.BrowserVersion, s.Device.OS, s.Device.OSVersion, s.Device.DeviceType,
		s.Device.ScreenWidth, s.Device.ScreenHeight, s.IPAddress,
		s.StartTime.UTC().Format(sqliteTimeLayout),
		s.LastActivity.UTC().Format(sqliteTimeLayout),
		s.Duration,
	)
	if err != nil {
		// The token may have been claimed between the caller's read and this
		// insert. Fall back to the surviving record before reporting failure.
		existing, findErr := r.FindByToken(s.SessionToken)
		if findErr == nil && existing != nil {
			r.logger.Database().Debug("Session insert lost creation race, reusing existing record",
				"sessionId", existing.ID,
				"projectId", existing.ProjectID)
			return existing, nil
		}
		r.logger.Database().Error("Session insert failed",
			"error", err.Error(),
			"sessionId", s.ID,
			"projectId", s.ProjectID)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return s, nil
}

// UpdateActivity persists last-activity and the derived duration for an
// existing session. Last write survives; duration is derived, not
// authoritative.
func (r *SQLSessionRepository) UpdateActivity(sessionID string, lastActivity time.Time, duration int64) error {
	const query = `UPDATE sessions SET last_activity = ?, duration = ? WHERE id = ?`

	start := time.Now()

	_, err := r.db.Exec(query, lastActivity.UTC().Format(sqliteTimeLayout), duration, sessionID)
	if err != nil {
		r.logger.Database().Error("Session activity update failed",
			"error", err.Error(),
			"sessionId", sessionID)
		return fmt.Errorf("failed to update session activity: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
