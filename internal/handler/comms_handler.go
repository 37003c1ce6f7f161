package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/middleware"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// CommsHandler handles HTTP requests for the command communication channel
type CommsHandler struct {
	commsService *service.CommsService
}

// NewCommsHandler creates a new communication handler
func NewCommsHandler(commsService *service.CommsService) *CommsHandler {
	return &CommsHandler{commsService: commsService}
}

// List handles GET /api/v1/admin/communication. Messages come back newest
// first; ?limit= caps the page.
func (h *CommsHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	response.Success(c, h.commsService.List(limit))
}

// Post handles POST /api/v1/admin/communication
func (h *CommsHandler) Post(c *gin.Context) {
	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message and unit are required")
		return
	}

	if req.AuthorID == "" {
		if session, ok := middleware.SessionFrom(c); ok {
			req.AuthorID = session.UserID
		}
	}

	msg, err := h.commsService.Post(req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, msg)
}
