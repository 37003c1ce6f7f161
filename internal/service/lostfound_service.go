package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
)

var (
	ErrReportNotFound = errors.New("lost & found report not found")
	ErrReportClosed   = errors.New("lost & found report is closed")
)

// LostFoundService manages missing-person reports filed by pilgrims
type LostFoundService struct {
	repo *repository.LostFoundRepository
}

// NewLostFoundService creates the report service
func NewLostFoundService(repo *repository.LostFoundRepository) *LostFoundService {
	return &LostFoundService{repo: repo}
}

// Create validates and files a new report. Reports always start missing.
func (s *LostFoundService) Create(req models.CreateLostFoundRequest) (models.LostFoundReport, error) {
	if req.Name == "" {
		return models.LostFoundReport{}, &ValidationError{Field: "name"}
	}
	if req.Description == "" {
		return models.LostFoundReport{}, &ValidationError{Field: "description"}
	}
	if req.LastSeenLocation == nil {
		return models.LostFoundReport{}, &ValidationError{Field: "lastSeenLocation"}
	}

	report := models.LostFoundReport{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		Description:      req.Description,
		LastSeenLocation: *req.LastSeenLocation,
		Status:           models.LostFoundStatusMissing,
		ReportedBy:       req.ReportedBy,
		CreatedAt:        time.Now(),
	}
	s.repo.Insert(report)
	log.Printf("[LostFoundService] Report filed for %s near (%.4f, %.4f)",
		report.Name, report.LastSeenLocation.Lat, report.LastSeenLocation.Lng)
	return report, nil
}

// List returns all reports newest-first
func (s *LostFoundService) List() []models.LostFoundReport {
	return s.repo.List()
}

// UpdateStatus moves a report to found or closed. Closed is terminal.
func (s *LostFoundService) UpdateStatus(id string, status models.LostFoundStatus, foundBy string) (models.LostFoundReport, error) {
	report, ok := s.repo.Get(id)
	if !ok {
		return models.LostFoundReport{}, ErrReportNotFound
	}
	if report.Status == models.LostFoundStatusClosed {
		return models.LostFoundReport{}, ErrReportClosed
	}

	report.Status = status
	if status == models.LostFoundStatusFound || status == models.LostFoundStatusClosed {
		now := time.Now()
		report.ResolvedAt = &now
		if foundBy != "" {
			report.FoundBy = foundBy
		}
	}

	if !s.repo.Update(report) {
		return models.LostFoundReport{}, ErrReportNotFound
	}
	return report, nil
}

// CountOpen reports how many people are still missing
func (s *LostFoundService) CountOpen() int {
	return s.repo.CountOpen()
}
