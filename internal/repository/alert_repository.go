package repository

import (
	"sort"
	"sync"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// alertRecord pairs an alert with its optional response under a record-level
// lock, so mutations of unrelated alerts never contend with each other.
type alertRecord struct {
	mu       sync.Mutex
	alert    models.Alert
	response *models.Response
}

// AlertRepository is the in-memory alert ledger. Alerts are never deleted;
// resolved alerts stay in the store for the audit trail.
type AlertRepository struct {
	mu      sync.RWMutex
	records map[string]*alertRecord
}

// NewAlertRepository creates an empty ledger
func NewAlertRepository() *AlertRepository {
	return &AlertRepository{records: make(map[string]*alertRecord)}
}

// Insert adds a freshly created alert to the ledger
func (r *AlertRepository) Insert(alert models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[alert.ID] = &alertRecord{alert: alert}
}

// Get returns a snapshot of the alert and its response, if any
func (r *AlertRepository) Get(id string) (models.Alert, *models.Response, bool) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return models.Alert{}, nil, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	alert := rec.alert
	var resp *models.Response
	if rec.response != nil {
		c := *rec.response
		resp = &c
	}
	return alert, resp, true
}

// Mutate runs fn under the alert's record lock. fn receives the stored alert
// and response by pointer; changes commit only when fn returns nil. This is
// the serialization point that keeps at most one response per alert under
// concurrent responders.
func (r *AlertRepository) Mutate(id string, fn func(alert *models.Alert, response **models.Response) error) (models.Alert, *models.Response, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return models.Alert{}, nil, ErrRecordNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	alert := rec.alert
	response := rec.response
	if err := fn(&alert, &response); err != nil {
		return models.Alert{}, nil, err
	}
	rec.alert = alert
	rec.response = response

	var respCopy *models.Response
	if response != nil {
		c := *response
		respCopy = &c
	}
	return alert, respCopy, nil
}

// ListActive returns all non-resolved alerts ordered by createdAt descending
func (r *AlertRepository) ListActive() []models.Alert {
	return r.list(func(a models.Alert) bool { return a.Status != models.AlertStatusResolved })
}

// ListAll returns every alert ordered by createdAt descending
func (r *AlertRepository) ListAll() []models.Alert {
	return r.list(func(models.Alert) bool { return true })
}

func (r *AlertRepository) list(keep func(models.Alert) bool) []models.Alert {
	r.mu.RLock()
	recs := make([]*alertRecord, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	alerts := make([]models.Alert, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		a := rec.alert
		rec.mu.Unlock()
		if keep(a) {
			alerts = append(alerts, a)
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts
}

// Response returns the response attached to an alert, if any
func (r *AlertRepository) Response(alertID string) (*models.Response, bool) {
	_, resp, ok := r.Get(alertID)
	if !ok || resp == nil {
		return nil, false
	}
	return resp, true
}
