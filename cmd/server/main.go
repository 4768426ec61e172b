package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_web/internal/circuitbreaker"
	"restaurant_web/internal/config"
	"restaurant_web/internal/database"
	"restaurant_web/internal/events"
	"restaurant_web/internal/handlers"
	"restaurant_web/internal/logging"
	"restaurant_web/internal/migrations"
	"restaurant_web/internal/redis"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"
	"restaurant_web/internal/storage"
	"restaurant_web/internal/websocket"
	"restaurant_web/pkg/whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	location := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Redis is optional: without it settings are read from the database on
	// every request and rate limiting is disabled.
	var (
		cache   services.Cache
		limiter handlers.Limiter
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cache = redisClient
		limiter = redisClient
	}

	var (
		sender         services.MessageSender
		whatsappClient *whatsapp.Client
	)
	if cfg.WhatsAppAPIURL != "" {
		whatsappClient = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		whatsappClient.CountryCode = cfg.WhatsAppCountryCode
		sender = whatsappClient
	} else {
		logger.Warn("WHATSAPP_API_URL not set, notifications disabled")
	}
	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "whatsapp", MaxFailures: 5, Timeout: time.Minute}, logger)
	notifier := services.NewNotificationService(sender, breaker, cfg.StaffNotifyPhone, logger)

	var store storage.Store
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialise GCS storage")
		}
		defer gcs.Close()
		store = gcs
	} else {
		store = storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	}

	hub := websocket.NewHub(cfg.AllowedOrigins, logger)
	go hub.Run(ctx)
	publishers := []events.Publisher{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Kafka")
		}
		defer kafka.Close()
		publishers = append(publishers, kafka)
	}
	publisher := events.Multi(publishers...)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	contactRepo := repository.NewContactRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	// Initialize services
	settingsService := services.NewSettingsService(settingsRepo, cache, cfg.SettingsCacheTTL, logger)
	userService := services.NewUserService(userRepo, cfg.WhatsAppCountryCode, logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger)
	orderService := services.NewOrderService(orderRepo, settingsService, publisher, notifier, logger)
	reservationService := services.NewReservationService(reservationRepo, settingsService, publisher, notifier, location, logger)
	menuService := services.NewMenuService(menuRepo, store, logger)
	galleryService := services.NewGalleryService(galleryRepo, store, logger)
	contactService := services.NewContactService(contactRepo, publisher, notifier, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, logger)
	dashboardService := services.NewDashboardService(orderRepo, orderItemRepo, reservationRepo, contactRepo, location)
	reminderService := services.NewReminderService(reservationRepo, notifier, cfg.ReminderLead, logger)

	if err := migrations.RunMigrations(ctx, userService, settingsService, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.WithError(err).Fatal("Failed to create default data")
	}

	if cfg.ReminderInterval > 0 {
		go reminderService.Run(ctx, cfg.ReminderInterval)
	}

	// Initialize handlers
	deps := handlers.RouterDeps{
		Auth:    authService,
		Public:  handlers.NewPublicHandler(orderService, reservationService, menuService, galleryService, contactService, settingsService, announcementService, logger),
		Session: handlers.NewAuthHandler(authService, cfg.CookieSecure, logger),
		Admin: handlers.NewAdminHandler(handlers.AdminServices{
			Orders:        orderService,
			Reservations:  reservationService,
			Menu:          menuService,
			Gallery:       galleryService,
			Contact:       contactService,
			Settings:      settingsService,
			Announcements: announcementService,
			Users:         userService,
			Dashboard:     dashboardService,
		}, location, logger),
		LiveFeed:  hub.HandleWebSocket,
		Limiter:   limiter,
		RateLimit: cfg.RateLimitPerMinute,
		Logger:    logger,
	}
	if cfg.GCSBucket == "" {
		deps.UploadDir = cfg.UploadDir
	}
	if whatsappClient != nil {
		deps.WhatsApp = handlers.NewWhatsAppHandler(whatsappClient, userService, orderService, reservationService, cfg.WhatsappWebhookSecret, logger)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
		ExposeHeaders:    []string{logging.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	handlers.Register(router, deps)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	notifier.Wait()
}
