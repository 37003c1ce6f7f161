package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
)

// Business-rule violations surfaced to the caller verbatim; never retried
// silently.
var (
	ErrAlertNotFound         = errors.New("alert not found")
	ErrAlertAlreadyResponded = errors.New("alert already responded")
	ErrAlertTerminal         = errors.New("alert is resolved and cannot be mutated")
)

// ValidationError reports a missing required field on create
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// AlertService is the alert ledger and response coordinator: the single
// source of truth reporters and responders both read and write.
type AlertService struct {
	repo  *repository.AlertRepository
	audit *repository.AuditRepository // optional
	bus   *events.Bus
}

// NewAlertService creates the ledger service. audit may be nil.
func NewAlertService(repo *repository.AlertRepository, audit *repository.AuditRepository, bus *events.Bus) *AlertService {
	return &AlertService{repo: repo, audit: audit, bus: bus}
}

// AlertResponded is the event payload for a recorded response
type AlertResponded struct {
	Alert    models.Alert    `json:"alert"`
	Response models.Response `json:"response"`
}

// Create validates and records a new alert. Alerts always start active;
// concurrent creates never collide because each gets a fresh identity.
func (s *AlertService) Create(req models.CreateAlertRequest) (models.Alert, error) {
	if req.Description == "" {
		return models.Alert{}, &ValidationError{Field: "description"}
	}
	if req.Location == nil {
		return models.Alert{}, &ValidationError{Field: "location"}
	}

	reportedBy := req.ReportedBy
	if reportedBy == "" {
		reportedBy = "anonymous"
	}

	alert := models.Alert{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		Priority:    req.Priority,
		Status:      models.AlertStatusActive,
		Location:    *req.Location,
		Description: req.Description,
		ReportedBy:  reportedBy,
		CreatedAt:   time.Now(),
	}
	s.repo.Insert(alert)

	s.recordAudit(alert.ID, "created", alert)
	s.bus.Publish(events.TypeAlertCreated, alert)
	log.Printf("[AlertService] Alert created: %s %s/%s at (%.4f, %.4f)",
		alert.ID, alert.Kind, alert.Priority, alert.Location.Lat, alert.Location.Lng)
	return alert, nil
}

// Get returns an alert and its response, if any
func (s *AlertService) Get(id string) (models.Alert, *models.Response, error) {
	alert, resp, ok := s.repo.Get(id)
	if !ok {
		return models.Alert{}, nil, ErrAlertNotFound
	}
	return alert, resp, nil
}

// ListActive returns all non-resolved alerts, newest first
func (s *AlertService) ListActive() []models.Alert {
	return s.repo.ListActive()
}

// ListAll returns the full ledger, newest first
func (s *AlertService) ListAll() []models.Alert {
	return s.repo.ListAll()
}

// Respond attaches the single response to an open alert and transitions it to
// responding, or directly to resolved when the responder closes it out. The
// alert and response commit atomically under the record lock, so a reader
// never observes a responding alert without its response.
func (s *AlertService) Respond(alertID string, req models.RespondRequest) (models.Alert, models.Response, error) {
	if req.Message == "" {
		return models.Alert{}, models.Response{}, &ValidationError{Field: "message"}
	}

	now := time.Now()
	newResponse := models.Response{
		AlertID:       alertID,
		Message:       req.Message,
		ResponderID:   req.ResponderID,
		ResponderName: req.ResponderName,
		CreatedAt:     now,
	}

	alert, resp, err := s.repo.Mutate(alertID, func(alert *models.Alert, response **models.Response) error {
		if alert.Status == models.AlertStatusResolved {
			return ErrAlertTerminal
		}
		if *response != nil {
			return ErrAlertAlreadyResponded
		}

		*response = &newResponse
		if req.Resolve {
			alert.Status = models.AlertStatusResolved
			resolvedAt := now
			alert.ResolvedAt = &resolvedAt
		} else {
			alert.Status = models.AlertStatusResponding
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return models.Alert{}, models.Response{}, ErrAlertNotFound
		}
		return models.Alert{}, models.Response{}, err
	}

	auditEvents := []repository.AlertEvent{{Event: "responded", Detail: resp}}
	if alert.Status == models.AlertStatusResolved {
		auditEvents = append(auditEvents, repository.AlertEvent{Event: "resolved", Detail: alert})
	}
	s.recordAuditEvents(alertID, auditEvents)

	s.bus.Publish(events.TypeAlertResponded, AlertResponded{Alert: alert, Response: *resp})
	if alert.Status == models.AlertStatusResolved {
		s.bus.Publish(events.TypeAlertResolved, alert)
	}
	log.Printf("[AlertService] Alert %s responded by %s (status=%s)", alertID, resp.ResponderID, alert.Status)
	return alert, *resp, nil
}

// Resolve explicitly closes an alert. Resolution is never automatic.
func (s *AlertService) Resolve(alertID string) (models.Alert, error) {
	now := time.Now()
	alert, _, err := s.repo.Mutate(alertID, func(alert *models.Alert, _ **models.Response) error {
		if alert.Status == models.AlertStatusResolved {
			return ErrAlertTerminal
		}
		alert.Status = models.AlertStatusResolved
		resolvedAt := now
		alert.ResolvedAt = &resolvedAt
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return models.Alert{}, ErrAlertNotFound
		}
		return models.Alert{}, err
	}

	s.recordAudit(alertID, "resolved", alert)
	s.bus.Publish(events.TypeAlertResolved, alert)
	log.Printf("[AlertService] Alert %s resolved", alertID)
	return alert, nil
}

// AverageResponseLatency reports the mean delay between alert creation and
// its response, across all responded alerts.
func (s *AlertService) AverageResponseLatency() time.Duration {
	var total time.Duration
	var n int
	for _, alert := range s.repo.ListAll() {
		resp, ok := s.repo.Response(alert.ID)
		if !ok {
			continue
		}
		total += resp.CreatedAt.Sub(alert.CreatedAt)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

func (s *AlertService) recordAudit(alertID, event string, detail any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordAlertEvent(alertID, event, detail); err != nil {
		log.Printf("[AlertService] Audit write failed for %s/%s: %v", alertID, event, err)
	}
}

// recordAuditEvents writes a batch of lifecycle events transactionally, so a
// respond-and-resolve leaves either both rows or none.
func (s *AlertService) recordAuditEvents(alertID string, evs []repository.AlertEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordAlertEvents(alertID, evs); err != nil {
		log.Printf("[AlertService] Audit batch write failed for %s: %v", alertID, err)
	}
}
