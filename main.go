package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/logger"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/notify"
	"diagnostic-center-server/internal/routes"
	"diagnostic-center-server/internal/workers"
)

func main() {
	// Load environment variables; a missing .env is fine in deployment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		zlog.Fatal("Error connecting to database", zap.Error(err))
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	collector := metrics.NewCollector("diagnostic_center")
	router.Use(collector.Middleware())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, zlog, collector)

	// Start the appointment reminder worker
	notifier := notify.NewNotifier(db, cfg, zlog)
	reminder := workers.NewAppointmentReminder(db, notifier, zlog)
	scheduler := reminder.StartReminderCron(cfg.ReminderIntervalMinutes)
	defer scheduler.Stop()

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(serverAddr); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
