package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/database"
	"github.com/safeyatra/safety-backend-go/internal/models"
)

// AuditRepository appends alert-lifecycle and communication records to
// sqlite. The in-memory stores stay authoritative; the audit trail is the
// retain-forever record that survives process restart.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository wraps an initialized database handle
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordAlertEvent appends one lifecycle event for an alert
func (r *AuditRepository) RecordAlertEvent(alertID, event string, detail any) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal audit detail: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO alert_audit (alert_id, event, detail) VALUES (?, ?, ?)`,
		alertID, event, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert alert audit: %w", err)
	}
	return nil
}

// AlertEvent pairs a lifecycle event name with its detail payload
type AlertEvent struct {
	Event  string
	Detail any
}

// RecordAlertEvents appends several lifecycle events for an alert in a single
// transaction, so a response that also resolves the alert audits both rows or
// neither.
func (r *AuditRepository) RecordAlertEvents(alertID string, evs []AlertEvent) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, ev := range evs {
			payload, err := json.Marshal(ev.Detail)
			if err != nil {
				return fmt.Errorf("marshal audit detail: %w", err)
			}
			if _, err := tx.Exec(
				`INSERT INTO alert_audit (alert_id, event, detail) VALUES (?, ?, ?)`,
				alertID, ev.Event, string(payload),
			); err != nil {
				return fmt.Errorf("insert alert audit: %w", err)
			}
		}
		return nil
	})
}

// RecordMessage appends a posted communication message
func (r *AuditRepository) RecordMessage(m models.CommunicationMessage) error {
	_, err := r.db.Exec(
		`INSERT INTO message_audit (message_id, unit, author_id, priority, body, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Unit), m.AuthorID, string(m.Priority), m.Body,
		m.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert message audit: %w", err)
	}
	return nil
}

// AlertEventCount returns the number of audit rows for an alert
func (r *AuditRepository) AlertEventCount(alertID string) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM alert_audit WHERE alert_id = ?`, alertID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count alert audit: %w", err)
	}
	return n, nil
}
