package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/middleware"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// AlertHandler handles HTTP requests for the alert ledger
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// sosRequest is the pilgrim emergency payload
type sosRequest struct {
	Location    *models.Location `json:"location" binding:"required"`
	Description string           `json:"description"`
}

// SOS handles POST /api/v1/pilgrim/sos. An SOS is always an emergency alert
// at critical priority reported by the calling session.
func (h *AlertHandler) SOS(c *gin.Context) {
	var req sosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "location is required")
		return
	}

	description := req.Description
	if description == "" {
		description = "SOS Emergency Alert"
	}

	reportedBy := "anonymous"
	if session, ok := middleware.SessionFrom(c); ok {
		reportedBy = session.UserID
	}

	alert, err := h.alertService.Create(models.CreateAlertRequest{
		Kind:        models.AlertKindEmergency,
		Priority:    models.AlertPriorityCritical,
		Location:    req.Location,
		Description: description,
		ReportedBy:  reportedBy,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "SOS alert sent", "alert": alert})
}

// Create handles POST /api/v1/admin/alerts
func (h *AlertHandler) Create(c *gin.Context) {
	var req models.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "kind, priority, location and description are required")
		return
	}

	if req.ReportedBy == "" {
		if session, ok := middleware.SessionFrom(c); ok {
			req.ReportedBy = session.UserID
		}
	}

	alert, err := h.alertService.Create(req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, alert)
}

// ListActive handles GET /api/v1/admin/alerts
func (h *AlertHandler) ListActive(c *gin.Context) {
	response.Success(c, h.alertService.ListActive())
}

// Get handles GET /api/v1/admin/alerts/:id
func (h *AlertHandler) Get(c *gin.Context) {
	alert, resp, err := h.alertService.Get(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"alert": alert, "response": resp})
}

// Respond handles POST /api/v1/admin/alerts/:id/respond
func (h *AlertHandler) Respond(c *gin.Context) {
	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message is required")
		return
	}

	if req.ResponderID == "" {
		if session, ok := middleware.SessionFrom(c); ok {
			req.ResponderID = session.UserID
		}
	}

	alert, resp, err := h.alertService.Respond(c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"alert": alert, "response": resp})
}

// Resolve handles POST /api/v1/admin/alerts/:id/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	alert, err := h.alertService.Resolve(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, alert)
}
