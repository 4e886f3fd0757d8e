package main

import (
	"fmt"
	"net/http"
	"os"

	"fintrack/internal/authgate"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/notify"
	"fintrack/internal/securestore"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker with an app lock, cash and bank transaction tracking, configurable alerts, and backup/export.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an unlock token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	// Secure store for the PIN credential and settings blob
	store, err := securestore.New(db, []byte(appConfig.SecureStoreKey))
	if err != nil {
		return fmt.Errorf("failed to open secure store: %w", err)
	}

	// Notification dispatcher
	var sender notify.Sender
	if appConfig.NotifyWebhookURL != "" {
		sender = notify.NewWebhookSender(appConfig.NotifyWebhookURL)
	} else {
		sender = notify.LogSender{}
	}
	dispatcher := notify.NewDispatcher(sender, appConfig.NotificationsEnabled)
	defer dispatcher.Stop()

	// Initialize services
	credentialService := services.NewCredentialService(store)
	settingsService := services.NewSettingsService(store)
	alertService := services.NewAlertService(db, settingsService, dispatcher, appConfig.MonthlySummaryHour)
	transactionService := services.NewTransactionService(db, alertService)
	balanceService := services.NewBalanceService(db)
	exportService := services.NewExportService(db)

	// Align recurring reminders with the saved settings
	if err := alertService.ReconcileSchedules(); err != nil {
		log.Errorf("failed to reconcile notification schedules: %v", err)
	}

	// Lock session manager
	gateManager := authgate.NewManager(credentialService, settingsService, appConfig.BiometricTimeout)

	// Initialize handlers
	lockHandler := handlers.NewLockHandler(gateManager, credentialService, appConfig.JWTSecret, appConfig.UnlockTokenTTL)
	settingsHandler := handlers.NewSettingsHandler(settingsService, alertService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Register custom validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes: lock sessions and the PIN lifecycle
	lock := v1.Group("/lock")
	lock.POST("/sessions", lockHandler.OpenSession)
	lock.GET("/sessions/:id", lockHandler.GetSession)
	lock.DELETE("/sessions/:id", lockHandler.CloseSession)
	lock.POST("/sessions/:id/pin", lockHandler.SubmitPin)
	lock.POST("/sessions/:id/biometric", lockHandler.ReportBiometric)
	lock.POST("/sessions/:id/biometric/retry", lockHandler.RetryBiometric)

	v1.GET("/pin", lockHandler.PinStatus)
	v1.POST("/pin", lockHandler.SetPin)

	// Protected routes require an unlock token
	protected := v1.Group("/")
	protected.Use(middleware.RequireUnlock(appConfig.JWTSecret))

	// PIN change and disable require an unlocked session
	protected.PUT("/pin", lockHandler.ChangePin)
	protected.DELETE("/pin", lockHandler.DisablePin)

	// Settings routes
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Balance routes
	protected.GET("/balances", balanceHandler.GetBalances)

	// Export and backup routes
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/backup", exportHandler.CreateBackup)
	protected.POST("/backup/restore", exportHandler.RestoreBackup)

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
