package models

import "time"

// Fix represents one instantaneous position reading for an actor
type Fix struct {
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	AccuracyMeters float64   `json:"accuracyMeters"` // Reported even when large; policy belongs to the caller
	ObservedAt     time.Time `json:"observedAt"`
}

// Staleness returns how old the fix is relative to now
func (f Fix) Staleness(now time.Time) time.Duration {
	return now.Sub(f.ObservedAt)
}

// TrackedPosition is the tracker's view of one actor: the latest fix plus
// the last observation error, if any
type TrackedPosition struct {
	ActorID    string        `json:"actorId"`
	Fix        *Fix          `json:"fix,omitempty"`
	Staleness  time.Duration `json:"stalenessMs"`
	LastError  string        `json:"lastError,omitempty"`
	Tracking   bool          `json:"tracking"`
	UpdatedFix int64         `json:"fixCount"` // Number of fixes accepted since Start
}

// Location is a point attached to alerts and reports
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}
