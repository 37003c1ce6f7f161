package service

import (
	"github.com/safeyatra/safety-backend-go/internal/models"
)

// Overview aggregates the operational picture for the command dashboard
type Overview struct {
	ActiveAlerts      int               `json:"activeAlerts"`
	TrackedActors     int               `json:"trackedActors"`
	RegisteredUsers   int               `json:"registeredUsers"`
	OpenLostFound     int               `json:"openLostFound"`
	MessagesPosted    int               `json:"messagesPosted"`
	CrowdLevel        models.CrowdLevel `json:"crowdLevel"`
	AvgResponseMillis int64             `json:"avgResponseMs"`
}

// StatsService computes overview aggregates from the live stores
type StatsService struct {
	alerts    *AlertService
	tracker   *TrackerService
	density   *DensityService
	comms     *CommsService
	lostFound *LostFoundService
	auth      *AuthService
}

// NewStatsService wires the aggregator
func NewStatsService(alerts *AlertService, tracker *TrackerService, density *DensityService, comms *CommsService, lostFound *LostFoundService, auth *AuthService) *StatsService {
	return &StatsService{
		alerts:    alerts,
		tracker:   tracker,
		density:   density,
		comms:     comms,
		lostFound: lostFound,
		auth:      auth,
	}
}

// Overview snapshots the current operational aggregates
func (s *StatsService) Overview() Overview {
	return Overview{
		ActiveAlerts:      len(s.alerts.ListActive()),
		TrackedActors:     s.tracker.ActiveCount(),
		RegisteredUsers:   s.auth.UserCount(),
		OpenLostFound:     s.lostFound.CountOpen(),
		MessagesPosted:    s.comms.Count(),
		CrowdLevel:        s.density.CurrentLevel(),
		AvgResponseMillis: s.alerts.AverageResponseLatency().Milliseconds(),
	}
}
