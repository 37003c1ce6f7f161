package models

import "time"

// LostFoundStatus tracks a missing-person report lifecycle
type LostFoundStatus string

const (
	LostFoundStatusMissing LostFoundStatus = "missing"
	LostFoundStatusFound   LostFoundStatus = "found"
	LostFoundStatusClosed  LostFoundStatus = "closed"
)

// LostFoundReporter identifies who filed a lost & found report
type LostFoundReporter struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// LostFoundReport is a missing-person report filed by a pilgrim
type LostFoundReport struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Age              int               `json:"age,omitempty"`
	Gender           string            `json:"gender,omitempty"`
	Description      string            `json:"description"`
	LastSeenLocation Location          `json:"lastSeenLocation"`
	Status           LostFoundStatus   `json:"status"`
	ReportedBy       LostFoundReporter `json:"reportedBy"`
	FoundBy          string            `json:"foundBy,omitempty"`
	CreatedAt        time.Time         `json:"timestamp"`
	ResolvedAt       *time.Time        `json:"resolvedAt,omitempty"`
}

// CreateLostFoundRequest carries a new missing-person report
type CreateLostFoundRequest struct {
	Name             string            `json:"name" binding:"required"`
	Age              int               `json:"age"`
	Gender           string            `json:"gender"`
	Description      string            `json:"description" binding:"required"`
	LastSeenLocation *Location         `json:"lastSeenLocation" binding:"required"`
	ReportedBy       LostFoundReporter `json:"reportedBy"`
}
