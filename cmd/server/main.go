package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/config"
	"github.com/roadlink/bus-booking-backend/internal/database"
	"github.com/roadlink/bus-booking-backend/internal/handlers"
	"github.com/roadlink/bus-booking-backend/internal/middleware"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
	"github.com/roadlink/bus-booking-backend/pkg/jwt"
	"github.com/roadlink/bus-booking-backend/pkg/mailer"
	"github.com/roadlink/bus-booking-backend/pkg/metrics"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting RoadLink Bus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("Failed to load timezone: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	segmentRepo := database.NewSegmentRepository(db.DB)
	seatLedgerRepo := database.NewSeatLedgerRepository(db.DB)
	bookingRepo := database.NewBookingRepository(db.DB)
	userRepo := database.NewUserRepository(db.DB)
	priceRepo := database.NewPriceRepository(db.DB)
	cancellationRepo := database.NewPaymentCancellationRepository(db.DB)

	// Initialize services
	logger.Info("Initializing services...")
	m := metrics.New("roadlink")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	var gateway mailer.Gateway
	if cfg.Mail.Mode == "dev" {
		gateway = mailer.NewLogGateway(logger)
	} else {
		gateway = mailer.NewHTTPGateway(mailer.HTTPConfig{
			APIURL:      cfg.Mail.APIURL,
			APIKey:      cfg.Mail.APIKey,
			FromAddress: cfg.Mail.FromAddress,
			FromName:    cfg.Mail.FromName,
		})
	}
	logger.Infof("Email gateway: %s", gateway.GetName())

	cutoff := time.Duration(cfg.Booking.CutoffMinutes) * time.Minute
	grace := time.Duration(cfg.Booking.ArrivalGraceMinutes) * time.Minute
	cancellationTTL := time.Duration(cfg.Booking.CancellationTTLMinutes) * time.Minute

	notificationService := services.NewNotificationService(gateway, m, logger)
	inventoryService := services.NewSeatInventoryService(seatLedgerRepo, segmentRepo, logger)
	listingService := services.NewListingService(segmentRepo, inventoryService, logger, loc, cutoff, grace)
	bookingService := services.NewBookingService(bookingRepo, segmentRepo, inventoryService, notificationService, m, logger, loc, cutoff)
	routeService := services.NewRouteService(segmentRepo, logger, loc)
	authService := services.NewAuthService(userRepo, jwtService, notificationService, logger, cfg.Security.BcryptCost)
	priceService := services.NewPriceService(priceRepo, logger)
	paymentService := services.NewPaymentService(&cfg.Payment, cancellationRepo, cancellationTTL, m, logger)
	cleanupService := services.NewCleanupService(segmentRepo, bookingRepo, seatLedgerRepo, cancellationRepo, logger, loc, grace)
	reminderService := services.NewReminderService(bookingRepo, notificationService, logger, loc)
	cronService := services.NewCronService(cleanupService, reminderService, logger, loc)

	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	busHandler := handlers.NewBusHandler(listingService, routeService, bookingService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	priceHandler := handlers.NewPriceHandler(priceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(cronService)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db, cleanupService))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthMiddleware(jwtService), authHandler.Me)
		}

		buses := api.Group("/buses")
		{
			buses.GET("", busHandler.List)
			buses.GET("/get-bus/:id", busHandler.GetBus)

			authed := buses.Group("", middleware.AuthMiddleware(jwtService))
			{
				authed.POST("/book-seats", busHandler.BookSeats)
				authed.POST("/get-all-buses", middleware.RequireRole(models.RoleAdmin, models.RoleVendor), busHandler.GetAllBuses)
				authed.POST("/add-bus", middleware.RequireRole(models.RoleAdmin, models.RoleVendor), busHandler.AddBus)
				authed.PUT("/update-bus-status/:id", middleware.RequireRole(models.RoleAdmin, models.RoleVendor), busHandler.UpdateStatus)
				authed.DELETE("/delete-bus/:id", middleware.RequireRole(models.RoleAdmin), busHandler.Delete)
			}
		}

		bookings := api.Group("/bookings", middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("/book-seat", bookingHandler.BookSeat)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/all", middleware.RequireRole(models.RoleAdmin), bookingHandler.ListAll)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/cancel/:id", bookingHandler.Cancel)
			bookings.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), bookingHandler.Delete)
		}

		prices := api.Group("/prices")
		{
			prices.GET("", priceHandler.List)
			prices.GET("/paginated", priceHandler.Page)
			prices.GET("/:id", priceHandler.Get)

			managed := prices.Group("", middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleAdmin, models.RoleVendor))
			{
				managed.POST("", priceHandler.Create)
				managed.PUT("/:id", priceHandler.Update)
				managed.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), priceHandler.Delete)
			}
		}

		payments := api.Group("/payments", middleware.AuthMiddleware(jwtService))
		{
			payments.POST("/cancel", paymentHandler.Cancel)
			payments.GET("/status/:reference", paymentHandler.Status)
			payments.POST("/otp", paymentHandler.SubmitOTP)
			payments.GET("/channels", paymentHandler.Channels)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/jobs/cleanup", adminHandler.RunCleanup)
			admin.POST("/jobs/reminders", adminHandler.RunReminders)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB, cleanup *services.CleanupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		body := gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		}
		if last := cleanup.LastRun(); !last.IsZero() {
			body["last_cleanup"] = last.Unix()
		}
		c.JSON(http.StatusOK, body)
	}
}
