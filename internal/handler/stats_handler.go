package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// StatsHandler handles the command dashboard overview and liveness probe
type StatsHandler struct {
	statsService   *service.StatsService
	densityService *service.DensityService
	startedAt      time.Time
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService, densityService *service.DensityService) *StatsHandler {
	return &StatsHandler{
		statsService:   statsService,
		densityService: densityService,
		startedAt:      time.Now(),
	}
}

// Overview handles GET /api/v1/admin/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	response.Success(c, h.statsService.Overview())
}

// Health handles GET /health. The sample-update counter is monotonic,
// so a stalled estimator shows up as a flat number across probes.
func (h *StatsHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"sampleUpdates": h.densityService.UpdateCount(),
	})
}
