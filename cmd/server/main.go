package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/config"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/handlers"
	"github.com/thebell/bellstaff-backend/internal/middleware"
	"github.com/thebell/bellstaff-backend/internal/services"
	"github.com/thebell/bellstaff-backend/pkg/jwt"
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

	logger.Info("Starting TheBell Bell Staff Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Warnf("Unknown timezone %q, using server local time", cfg.Server.Timezone)
		location = time.Local
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.RunMigrations {
		logger.Info("Running migrations...")
		if err := database.RunMigrations(db.DB.DB); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations up to date")
	}

	// Open the change feed before anything depends on it
	listener, err := database.NewChangeListener(
		cfg.Database.URL,
		cfg.Sync.ListenerMinBackoff,
		cfg.Sync.ListenerMaxBackoff,
		logger,
	)
	if err != nil {
		logger.Fatalf("Failed to open change feed listener: %v", err)
	}
	defer listener.Close()

	// Initialize repositories
	taskRepository := database.NewTaskRepository(db)
	bellmanRepository := database.NewBellmanRepository(db)
	activityLogRepository := database.NewActivityLogRepository(db)
	userRepository := database.NewUserRepository(db)
	hotelRepository := database.NewHotelRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	rosterStore := services.NewRosterStore()
	queueService := services.NewQueueService(taskRepository, bellmanRepository, activityLogRepository, rosterStore, logger)
	taskService := services.NewTaskService(taskRepository, location, logger)
	authService := services.NewAuthService(userRepository, jwtService, logger)

	syncService := services.NewSyncService(taskRepository, listener, cfg.Sync.PollInterval, logger)
	if err := syncService.Start(); err != nil {
		logger.Fatalf("Failed to start sync service: %v", err)
	}

	cronService := services.NewCronService(activityLogRepository, cfg.Sync.LogRetentionDays, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, queueService)
	queueHandler := handlers.NewQueueHandler(queueService)
	bellmanHandler := handlers.NewBellmanHandler(queueService)
	activityLogHandler := handlers.NewActivityLogHandler(activityLogRepository)
	exportHandler := handlers.NewExportHandler()
	adminHandler := handlers.NewAdminHandler(hotelRepository, userRepository, cfg.Security.BcryptCost)
	streamHandler := handlers.NewStreamHandler(syncService, cfg.Sync.HeartbeatInterval)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, syncService))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Everything below requires a valid token
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.GET("/user/profile", authHandler.Profile)

			tasks := protected.Group("/tasks")
			{
				tasks.GET("", taskHandler.List)
				tasks.POST("", taskHandler.Create)
				tasks.GET("/stats", taskHandler.Stats)
				tasks.POST("/:id/take", taskHandler.Take)
				tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			}

			queue := protected.Group("/queue")
			{
				queue.GET("", queueHandler.Snapshot)
				queue.POST("/bellmen", queueHandler.AddBellman)
				queue.DELETE("/bellmen/:id", queueHandler.RemoveBellman)
				queue.POST("/assign", queueHandler.Assign)
				queue.POST("/tasks", queueHandler.CreateAndAssign)
				queue.POST("/resolve", queueHandler.Resolve)
			}

			bellmen := protected.Group("/bellmen")
			{
				bellmen.GET("", bellmanHandler.List)
				bellmen.PUT("/me/status", bellmanHandler.SetMyStatus)
				bellmen.PUT("/:id/status", bellmanHandler.SetStatus)
			}

			protected.GET("/activity-logs", activityLogHandler.List)

			export := protected.Group("/export")
			{
				export.POST("/activity-logs", exportHandler.ActivityLogs)
				export.POST("/reports", exportHandler.Reports)
			}

			protected.GET("/stream", streamHandler.Stream)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireSuperAdmin())
			{
				admin.GET("/hotels", adminHandler.ListHotels)
				admin.GET("/hotels/:id/stats", adminHandler.HotelStats)
				admin.POST("/users", adminHandler.CreateUser)
				admin.POST("/cron/prune-logs", func(c *gin.Context) {
					cronService.RunPruneNow()
					c.JSON(http.StatusOK, gin.H{"message": "Activity log pruning triggered"})
				})
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming endpoint holds connections open
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronService.Stop()
	syncService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		ua := user_agent.New(c.Request.UserAgent())
		browser, browserVersion := ua.Browser()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"browser":    fmt.Sprintf("%s %s", browser, browserVersion),
			"os":         ua.OS(),
			"mobile":     ua.Mobile(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler reports database and change feed health
func healthCheckHandler(db database.DB, sync *services.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"database":    "healthy",
			"change_feed": sync.Connected(),
			"version":     version,
			"timestamp":   time.Now().Unix(),
		})
	}
}
