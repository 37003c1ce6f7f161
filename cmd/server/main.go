package main

import (
	"log"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/api"
	"github.com/safeyatra/safety-backend-go/internal/config"
	"github.com/safeyatra/safety-backend-go/internal/database"
	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/handler"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
	"github.com/safeyatra/safety-backend-go/internal/service"
)

// Reference point for the deployment area (Mahakal corridor, Ujjain)
const (
	baseLat = 23.1815
	baseLng = 75.7804
)

func main() {
	cfg := config.Load()

	// Audit trail is best-effort: a broken database disables it but does not
	// take the service down
	var audit *repository.AuditRepository
	db, err := database.Open(cfg.AuditDBPath)
	if err != nil {
		log.Printf("Audit database unavailable, continuing without audit trail: %v", err)
	} else {
		defer db.Close()
		if err := database.InitSchema(db); err != nil {
			log.Printf("Audit schema init failed, continuing without audit trail: %v", err)
		} else {
			audit = repository.NewAuditRepository(db)
		}
	}

	users := repository.NewUserRepository()
	otps := repository.NewOTPRepository()
	sessions := repository.NewSessionRepository()
	alerts := repository.NewAlertRepository()
	messages := repository.NewMessageRepository()
	lostFound := repository.NewLostFoundRepository()

	bus := events.NewBus()

	var broadcaster events.InvalidationBroadcaster
	if cfg.RedisAddr != "" {
		rb, err := events.NewRedisBroadcaster(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect invalidation broadcaster: %v", err)
		}
		defer rb.Close()
		broadcaster = rb
		log.Printf("Session invalidation broadcast via redis at %s", cfg.RedisAddr)
	} else {
		broadcaster = events.NewLocalBroadcaster(bus)
	}

	authService, err := service.NewAuthService(service.AuthConfig{
		JWTSecret:         []byte(cfg.JWTSecret),
		OTPTTL:            cfg.OTPTTL,
		SessionTTL:        cfg.SessionTTL,
		InactivityTimeout: cfg.InactivityTimeout,
		JanitorInterval:   cfg.JanitorInterval,
	}, users, otps, sessions, broadcaster, bus)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	defer authService.Close()
	authService.StartJanitor()

	fixSource := service.NewSimulatedFixSource(baseLat, baseLng, 5*time.Second)
	trackerService := service.NewTrackerService(fixSource, bus)
	defer trackerService.StopAll()

	// A logout that clears session data also stops the actor's tracking
	authService.RegisterClearHook(func(identifier, userID string) {
		trackerService.Stop(userID)
	})

	densityService := service.NewDensityService(service.DensityConfig{
		MinSamples: cfg.DensityMinSamples,
		MaxSamples: cfg.DensityMaxSamples,
		TickChance: cfg.DensityTickChance,
		TickEvery:  cfg.DensityTickEvery,
	}, service.DefaultDensityThresholds(), bus)
	densityService.Refresh(models.Fix{Lat: baseLat, Lng: baseLng, ObservedAt: time.Now()}, cfg.DefaultRadiusMeter)
	densityService.StartTicking()
	defer densityService.Stop()

	alertService := service.NewAlertService(alerts, audit, bus)
	commsService := service.NewCommsService(messages, audit, bus, cfg.MessageBacklog)
	lostFoundService := service.NewLostFoundService(lostFound)
	statsService := service.NewStatsService(alertService, trackerService, densityService, commsService, lostFoundService, authService)

	if cfg.SeedSampleData {
		seed(alertService, commsService)
	}

	router := api.SetupRouter(cfg, authService, api.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Alert:     handler.NewAlertHandler(alertService),
		Density:   handler.NewDensityHandler(densityService, cfg.DefaultRadiusMeter),
		Tracker:   handler.NewTrackerHandler(trackerService),
		Comms:     handler.NewCommsHandler(commsService),
		LostFound: handler.NewLostFoundHandler(lostFoundService),
		Stats:     handler.NewStatsHandler(statsService, densityService),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seed loads demonstration data so a fresh instance has something on the
// dashboard
func seed(alerts *service.AlertService, comms *service.CommsService) {
	seedAlerts := []models.CreateAlertRequest{
		{
			Kind:        models.AlertKindMedical,
			Priority:    models.AlertPriorityHigh,
			Location:    &models.Location{Lat: 23.1828, Lng: 75.7772, Address: "Main Ghat"},
			Description: "Elderly pilgrim collapsed near the main ghat steps",
			ReportedBy:  "seed",
		},
		{
			Kind:        models.AlertKindCrowd,
			Priority:    models.AlertPriorityMedium,
			Location:    &models.Location{Lat: 23.1790, Lng: 75.7841, Address: "Bridge Junction"},
			Description: "Crowd pressure building at the bridge junction approach",
			ReportedBy:  "seed",
		},
	}
	for _, req := range seedAlerts {
		if _, err := alerts.Create(req); err != nil {
			log.Printf("Seed alert skipped: %v", err)
		}
	}

	if _, err := comms.Post(models.PostMessageRequest{
		Body:       "All units: shift change complete, channel is live",
		Unit:       models.RoleCoordinator,
		AuthorID:   "seed",
		AuthorName: "Control Room",
		Priority:   models.MessagePriorityNormal,
	}); err != nil {
		log.Printf("Seed message skipped: %v", err)
	}
}
