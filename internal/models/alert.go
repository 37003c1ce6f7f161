package models

import "time"

// AlertKind categorizes a reportable safety incident
type AlertKind string

const (
	AlertKindEmergency     AlertKind = "emergency"
	AlertKindMedical       AlertKind = "medical"
	AlertKindCrowd         AlertKind = "crowd"
	AlertKindMissingPerson AlertKind = "missing_person"
	AlertKindSecurity      AlertKind = "security"
)

// AlertPriority ranks the urgency of an alert
type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "low"
	AlertPriorityMedium   AlertPriority = "medium"
	AlertPriorityHigh     AlertPriority = "high"
	AlertPriorityCritical AlertPriority = "critical"
)

// AlertStatus tracks the alert lifecycle: active -> responding -> resolved.
// Resolved is terminal; responding is optional.
type AlertStatus string

const (
	AlertStatusActive     AlertStatus = "active"
	AlertStatusResponding AlertStatus = "responding"
	AlertStatusResolved   AlertStatus = "resolved"
)

// Alert is a reportable safety incident. Alerts are never deleted, only
// status-transitioned; resolved alerts are retained for the audit trail.
type Alert struct {
	ID          string        `json:"id"`
	Kind        AlertKind     `json:"kind"`
	Priority    AlertPriority `json:"priority"`
	Status      AlertStatus   `json:"status"`
	Location    Location      `json:"location"`
	Description string        `json:"description"`
	ReportedBy  string        `json:"reportedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
}

// Response is the single acknowledgment record attached to an alert.
// Immutable once created; at most one exists per alert.
type Response struct {
	AlertID       string    `json:"alertId"`
	Message       string    `json:"message"`
	ResponderID   string    `json:"responderId"`
	ResponderName string    `json:"responderName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateAlertRequest carries the fields a reporter supplies
type CreateAlertRequest struct {
	Kind        AlertKind     `json:"kind" binding:"required"`
	Priority    AlertPriority `json:"priority" binding:"required"`
	Location    *Location     `json:"location" binding:"required"`
	Description string        `json:"description" binding:"required"`
	ReportedBy  string        `json:"reportedBy"`
}

// RespondRequest carries a responder's acknowledgment
type RespondRequest struct {
	Message       string `json:"message" binding:"required"`
	ResponderID   string `json:"responderId"`
	ResponderName string `json:"responderName"`
	Resolve       bool   `json:"resolve"` // Responder may mark the alert resolved directly
}
