package main

import (
	"fmt"
	"net/http"
	"os"

	"riskhub/internal/config"
	"riskhub/internal/database"
	"riskhub/internal/handlers"
	"riskhub/internal/logger"
	"riskhub/internal/middleware"
	"riskhub/internal/rbac"
	"riskhub/internal/services"
	"riskhub/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "riskhub/internal/docs" // Import swagger docs
)

// @title           Riskhub API
// @version         1.0
// @description     Riskhub tracks organizational risks through their lifecycle, coordinating assignments, an append-only audit trail, and role-based access.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	riskService := services.NewRiskService(db, auditService)
	assignmentService := services.NewAssignmentService(db, auditService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	riskHandler := handlers.NewRiskHandler(riskService, auditService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
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

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", middleware.RequireAction(rbac.ActionViewProfile), authHandler.GetProfile)

	// Risk routes
	risks := protected.Group("/risks")
	risks.POST("", middleware.RequireAction(rbac.ActionCreateRisk), riskHandler.CreateRisk)
	risks.GET("", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRisks)
	risks.GET("/:id", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRisk)
	risks.PUT("/:id", middleware.RequireAction(rbac.ActionUpdateRisk), riskHandler.UpdateRisk)
	risks.DELETE("/:id", middleware.RequireAction(rbac.ActionDeleteRisk), riskHandler.DeleteRisk)
	risks.GET("/:id/updates", middleware.RequireAction(rbac.ActionViewRisk), riskHandler.GetRiskUpdates)

	// Assignment routes
	assignments := protected.Group("/assignments")
	assignments.POST("", middleware.RequireAction(rbac.ActionCreateAssignment), assignmentHandler.CreateAssignment)
	assignments.GET("", middleware.RequireAction(rbac.ActionViewAssignment), assignmentHandler.GetAssignments)
	assignments.GET("/:id", middleware.RequireAction(rbac.ActionViewAssignment), assignmentHandler.GetAssignment)
	assignments.PUT("/:id", middleware.RequireAction(rbac.ActionUpdateAssignment), assignmentHandler.UpdateAssignment)
	assignments.DELETE("/:id", middleware.RequireAction(rbac.ActionDeleteAssignment), assignmentHandler.DeleteAssignment)

	// Dashboard and reports
	protected.GET("/dashboard", middleware.RequireAction(rbac.ActionViewDashboard), dashboardHandler.GetDashboard)
	protected.GET("/reports/risks", middleware.RequireAction(rbac.ActionViewReports), dashboardHandler.GetRiskReport)

	// User management
	users := protected.Group("/users")
	users.Use(middleware.RequireAction(rbac.ActionManageUsers))
	users.GET("", userHandler.GetUsers)
	users.PUT("/:id/role", userHandler.UpdateUserRole)

	log.Infof("Starting Riskhub backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
