package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// TrackerHandler handles HTTP requests for continuous position tracking
type TrackerHandler struct {
	trackerService *service.TrackerService
}

// NewTrackerHandler creates a new tracker handler
func NewTrackerHandler(trackerService *service.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// Start handles POST /api/v1/tracking/:actorId/start
func (h *TrackerHandler) Start(c *gin.Context) {
	actorID := c.Param("actorId")
	if err := h.trackerService.Start(actorID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"actorId": actorID, "tracking": true})
}

// Stop handles DELETE /api/v1/tracking/:actorId. Stopping an actor that is
// not tracked is a no-op.
func (h *TrackerHandler) Stop(c *gin.Context) {
	actorID := c.Param("actorId")
	h.trackerService.Stop(actorID)
	response.Success(c, gin.H{"actorId": actorID, "tracking": false})
}

// Latest handles GET /api/v1/tracking/:actorId
func (h *TrackerHandler) Latest(c *gin.Context) {
	position, err := h.trackerService.Latest(c.Param("actorId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, position)
}
