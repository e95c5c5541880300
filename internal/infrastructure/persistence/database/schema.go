package database

import (
	"fmt"
)

// schemaStatements creates the durable event store. The unique index on
// sessions.session_token is load-bearing: concurrent resolve-or-create for the
// same new token is settled by the constraint, not by in-process locking.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		domain TEXT,
		tracking_id TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		priority INTEGER NOT NULL DEFAULT 0,
		trigger_config TEXT NOT NULL,
		content TEXT NOT NULL,
		styling TEXT NOT NULL,
		url_patterns TEXT NOT NULL,
		url_match_type TEXT NOT NULL DEFAULT 'contains',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_project_active ON actions(project_id, is_active)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		session_token TEXT NOT NULL UNIQUE,
		browser TEXT,
		browser_version TEXT,
		os TEXT,
		os_version TEXT,
		device_type TEXT,
		screen_width INTEGER,
		screen_height INTEGER,
		ip_address TEXT,
		start_time DATETIME NOT NULL,
		last_activity DATETIME NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id)`,
	`CREATE TABLE IF NOT EXISTS page_views (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		session_id TEXT NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		referrer TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_page_views_project ON page_views(project_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS click_events (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		session_id TEXT NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		element_selector TEXT,
		element_text TEXT,
		x_coordinate INTEGER,
		y_coordinate INTEGER,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_click_events_project ON click_events(project_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS scroll_events (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		session_id TEXT NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		scroll_depth INTEGER NOT NULL,
		max_scroll INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scroll_events_project ON scroll_events(project_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS action_interactions (
		id TEXT PRIMARY KEY,
		action_id TEXT NOT NULL REFERENCES actions(id),
		project_id TEXT NOT NULL REFERENCES projects(id),
		session_id TEXT NOT NULL REFERENCES sessions(id),
		type TEXT NOT NULL,
		url TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_action_interactions_action ON action_interactions(action_id, created_at)`,
}

// EnsureSchema creates any missing tables and indexes. It is idempotent and
// safe to run on every startup.
func (db *DB) EnsureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
