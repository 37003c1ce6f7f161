package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// LostFoundHandler handles HTTP requests for missing-person reports
type LostFoundHandler struct {
	lostFoundService *service.LostFoundService
}

// NewLostFoundHandler creates a new lost & found handler
func NewLostFoundHandler(lostFoundService *service.LostFoundService) *LostFoundHandler {
	return &LostFoundHandler{lostFoundService: lostFoundService}
}

// Create handles POST /api/v1/lostfound
func (h *LostFoundHandler) Create(c *gin.Context) {
	var req models.CreateLostFoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, description and lastSeenLocation are required")
		return
	}

	report, err := h.lostFoundService.Create(req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// List handles GET /api/v1/lostfound
func (h *LostFoundHandler) List(c *gin.Context) {
	response.Success(c, h.lostFoundService.List())
}

// updateStatusRequest moves a report through its lifecycle
type updateStatusRequest struct {
	Status  models.LostFoundStatus `json:"status" binding:"required"`
	FoundBy string                 `json:"foundBy"`
}

// UpdateStatus handles PUT /api/v1/lostfound/:id/status
func (h *LostFoundHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	report, err := h.lostFoundService.UpdateStatus(c.Param("id"), req.Status, req.FoundBy)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}
