package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// DensityHandler handles HTTP requests for crowd density estimates
type DensityHandler struct {
	densityService *service.DensityService
	defaultRadius  float64
}

// NewDensityHandler creates a new density handler
func NewDensityHandler(densityService *service.DensityService, defaultRadius float64) *DensityHandler {
	return &DensityHandler{densityService: densityService, defaultRadius: defaultRadius}
}

// refreshRequest recenters the sample set on a new reference point. Lat and
// lng are pointers so a legitimate 0 coordinate still binds.
type refreshRequest struct {
	Lat          *float64 `json:"lat" binding:"required"`
	Lng          *float64 `json:"lng" binding:"required"`
	RadiusMeters *float64 `json:"radiusMeters"`
}

// Refresh handles POST /api/v1/density/refresh
func (h *DensityHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lng == nil {
		response.BadRequest(c, "lat and lng are required")
		return
	}

	radius := h.defaultRadius
	if req.RadiusMeters != nil && *req.RadiusMeters > 0 {
		radius = *req.RadiusMeters
	}

	samples := h.densityService.Refresh(models.Fix{
		Lat:        *req.Lat,
		Lng:        *req.Lng,
		ObservedAt: time.Now(),
	}, radius)

	response.Success(c, gin.H{
		"samples":    samples,
		"crowdLevel": h.densityService.OverallLevel(samples),
	})
}

// Heatmap handles GET /api/v1/pilgrim/heatmap. Optional lat/lng query
// parameters recenter the estimate before returning it.
func (h *DensityHandler) Heatmap(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	var samples []models.DensitySample
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			response.BadRequest(c, "lat and lng must be numeric")
			return
		}
		samples = h.densityService.Refresh(models.Fix{Lat: lat, Lng: lng, ObservedAt: time.Now()}, h.defaultRadius)
	} else {
		samples = h.densityService.Samples()
	}

	response.Success(c, gin.H{
		"samples":    samples,
		"crowdLevel": h.densityService.OverallLevel(samples),
	})
}

// Status handles GET /api/v1/pilgrim/status: the single crowd-level word a
// pilgrim's safety banner needs.
func (h *DensityHandler) Status(c *gin.Context) {
	response.Success(c, gin.H{
		"crowdLevel": h.densityService.CurrentLevel(),
		"updatedAt":  time.Now(),
	})
}
