package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/config"
	"github.com/safeyatra/safety-backend-go/internal/handler"
	"github.com/safeyatra/safety-backend-go/internal/middleware"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
)

// Handlers collects the HTTP handlers the router wires up
type Handlers struct {
	Auth      *handler.AuthHandler
	Alert     *handler.AlertHandler
	Density   *handler.DensityHandler
	Tracker   *handler.TrackerHandler
	Comms     *handler.CommsHandler
	LostFound *handler.LostFoundHandler
	Stats     *handler.StatsHandler
}

// SetupRouter builds the gin engine and registers all routes
func SetupRouter(cfg *config.Config, auth *service.AuthService, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger("/health"))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", h.Stats.Health)

	api := r.Group("/api/v1")
	{
		// Login flow; rate limited because OTP requests are unauthenticated
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))
		{
			authGroup.POST("/send-otp", h.Auth.SendOTP)
			authGroup.POST("/verify-otp", h.Auth.VerifyOTP)
			authGroup.POST("/logout", middleware.RequireSession(auth), h.Auth.Logout)
		}

		// Pilgrim-facing routes
		pilgrim := api.Group("/pilgrim")
		pilgrim.Use(middleware.RequireSession(auth))
		{
			pilgrim.POST("/sos", h.Alert.SOS)
			pilgrim.GET("/status", h.Density.Status)
			pilgrim.GET("/heatmap", h.Density.Heatmap)
		}

		// Command dashboard routes, restricted to response personnel
		admin := api.Group("/admin")
		admin.Use(middleware.RequireSession(auth), middleware.RequireRole(models.RoleAdministrator, models.RolePolice, models.RoleMedical, models.RoleCoordinator))
		{
			admin.GET("/overview", h.Stats.Overview)
			admin.GET("/alerts", h.Alert.ListActive)
			admin.POST("/alerts", h.Alert.Create)
			admin.GET("/alerts/:id", h.Alert.Get)
			admin.POST("/alerts/:id/respond", h.Alert.Respond)
			admin.POST("/alerts/:id/resolve", h.Alert.Resolve)
			admin.GET("/communication", h.Comms.List)
			admin.POST("/communication", h.Comms.Post)
		}

		// Continuous position tracking
		tracking := api.Group("/tracking")
		tracking.Use(middleware.RequireSession(auth))
		{
			tracking.POST("/:actorId/start", h.Tracker.Start)
			tracking.GET("/:actorId", h.Tracker.Latest)
			tracking.DELETE("/:actorId", h.Tracker.Stop)
		}

		// Density recentering, used by the dashboard map
		density := api.Group("/density")
		density.Use(middleware.RequireSession(auth))
		{
			density.POST("/refresh", h.Density.Refresh)
		}

		// Missing-person reports
		lostfound := api.Group("/lostfound")
		lostfound.Use(middleware.RequireSession(auth))
		{
			lostfound.POST("", h.LostFound.Create)
			lostfound.GET("", h.LostFound.List)
			lostfound.PUT("/:id/status", h.LostFound.UpdateStatus)
		}
	}

	return r
}
