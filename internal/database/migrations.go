package database

import (
	"database/sql"
	"fmt"
)

// InitSchema ensures the audit-trail tables exist
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alert_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			alert_id TEXT NOT NULL,
			event TEXT NOT NULL,
			detail TEXT NOT NULL,
			recorded_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_alert_audit_alert ON alert_audit(alert_id, recorded_at);`,
		`CREATE TABLE IF NOT EXISTS message_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL,
			unit TEXT NOT NULL,
			author_id TEXT NOT NULL,
			priority TEXT NOT NULL,
			body TEXT NOT NULL,
			posted_at TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
