package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/handlers"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/middleware"
	"diagnostic-center-server/internal/notify"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) {
	notifier := notify.NewNotifier(db, cfg, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, notifier, collector)
	collectionHandler := handlers.NewCollectionHandler(db, notifier, collector)
	reportHandler := handlers.NewReportHandler(db, collector)
	notificationHandler := handlers.NewNotificationHandler(db)
	contactHandler := handlers.NewContactHandler(db, notifier)
	chatHandler := handlers.NewChatHandler(cfg, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Marketing pages browse doctors and availability before login
		public.GET("/doctors", doctorHandler.GetDoctors)
		public.GET("/doctors/:id", doctorHandler.GetDoctorByID)
		public.GET("/doctors/:id/slots", doctorHandler.GetDoctorSlots)

		public.POST("/contact", contactHandler.SubmitContact)
		public.POST("/chat", chatHandler.StreamChat)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User and role management (admin/manager only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.AdminOnlyMiddleware())
		{
			userRoutes.POST("", userHandler.CreateUser) // staff accounts are created here with roles ["staff"]
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
			userRoutes.POST("/:id/roles", userHandler.AddRole)
			userRoutes.DELETE("/:id/roles/:role", userHandler.RemoveRole)
		}

		// Doctor management (admin/manager only)
		doctorRoutes := private.Group("/doctors")
		doctorRoutes.Use(middleware.AdminOnlyMiddleware())
		{
			doctorRoutes.POST("", doctorHandler.CreateDoctor)
			doctorRoutes.PUT("/:id", doctorHandler.UpdateDoctor)
			doctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments) // role-scoped inside the handler
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus) // authorization inside the state machine
		}

		// Home-collection routes
		collectionRoutes := private.Group("/collections")
		{
			collectionRoutes.POST("", collectionHandler.CreateCollection)
			collectionRoutes.GET("", collectionHandler.GetCollections) // role-scoped inside the handler
			collectionRoutes.GET("/:id", collectionHandler.GetCollectionByID)
			collectionRoutes.GET("/:id/history", collectionHandler.GetCollectionHistory)
			collectionRoutes.PATCH("/:id/assign", collectionHandler.AssignStaff)
			collectionRoutes.PATCH("/:id/status", collectionHandler.UpdateCollectionStatus)
			collectionRoutes.PATCH("/:id/reschedule", collectionHandler.RescheduleCollection)
			collectionRoutes.POST("/:id/reports", reportHandler.UploadReport)
		}

		// Report routes
		reportRoutes := private.Group("/reports")
		{
			reportRoutes.GET("", reportHandler.GetReports)
			reportRoutes.GET("/:id/file", reportHandler.GetReportFile)
		}

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetNotifications)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", metrics.Handler())
}
