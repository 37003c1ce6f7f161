package repository

import (
	"sort"
	"sync"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// LostFoundRepository holds lost & found reports in memory
type LostFoundRepository struct {
	mu      sync.RWMutex
	reports map[string]models.LostFoundReport
}

// NewLostFoundRepository creates an empty report store
func NewLostFoundRepository() *LostFoundRepository {
	return &LostFoundRepository{reports: make(map[string]models.LostFoundReport)}
}

// Insert stores a new report
func (r *LostFoundRepository) Insert(report models.LostFoundReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
}

// Get returns the report with the given ID
func (r *LostFoundRepository) Get(id string) (models.LostFoundReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	return rep, ok
}

// Update replaces an existing report. Returns false when the ID is unknown.
func (r *LostFoundRepository) Update(report models.LostFoundReport) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return false
	}
	r.reports[report.ID] = report
	return true
}

// List returns all reports newest-first
func (r *LostFoundRepository) List() []models.LostFoundReport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.LostFoundReport, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CountOpen returns the number of reports still marked missing
func (r *LostFoundRepository) CountOpen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rep := range r.reports {
		if rep.Status == models.LostFoundStatusMissing {
			n++
		}
	}
	return n
}
