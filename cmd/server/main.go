package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/config"
	"github.com/hokuto/construction-finance-api/internal/constants"
	"github.com/hokuto/construction-finance-api/internal/database"
	"github.com/hokuto/construction-finance-api/internal/handlers"
	"github.com/hokuto/construction-finance-api/internal/middleware"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/hokuto/construction-finance-api/internal/services"
	"github.com/hokuto/construction-finance-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Structured logger
	var logger *zap.Logger
	var err error
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Fatal("Failed to add indexes", zap.Error(err))
	}

	// Local file storage, served under /uploads
	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("Failed to create Redis store", zap.Error(err))
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	changeOrderRepo := repository.NewChangeOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, contractorRepo, changeOrderRepo, invoiceRepo)
	contractorService := services.NewContractorService(contractorRepo, changeOrderRepo, invoiceRepo)
	changeOrderService := services.NewChangeOrderService(changeOrderRepo, contractorRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, contractorRepo, store, logger)

	mailer := services.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, logger)
	invitationService := services.NewInvitationService(invitationRepo, projectRepo, userRepo, mailer, cfg.SiteURL, logger)

	// Invoice extraction is disabled without an API key; the upload
	// endpoint then reports the AI service as unavailable.
	var aiService *services.AIService
	if cfg.DeepSeekAPIKey != "" {
		aiService = services.NewAIService(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL)
	}
	ingestService := services.NewIngestService(invoiceRepo, contractorRepo, aiService, store, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	contractorHandler := handlers.NewContractorHandler(contractorService)
	changeOrderHandler := handlers.NewChangeOrderHandler(changeOrderService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	ingestHandler := handlers.NewIngestHandler(ingestService)

	// Uploaded invoice documents
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Construction Finance API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Invitation join flow: resolving a token is public, accepting
		// requires a session
		api.GET("/invitations", invitationHandler.GetInvitation)
		api.POST("/invitations/accept", middleware.RequireAuth(), invitationHandler.AcceptInvitation)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.PATCH("/:id", middleware.RequireProjectAccess(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.DeleteProject)
			projects.POST("/:id/archive", middleware.RequireProjectAccess(), projectHandler.ArchiveProject)
			projects.POST("/:id/unarchive", middleware.RequireProjectAccess(), projectHandler.UnarchiveProject)

			projects.GET("/:id/members", middleware.RequireProjectAccess(), projectHandler.ListMembers)
			projects.DELETE("/:id/members/:user_id", middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.RemoveMember)
			projects.POST("/:id/invitations", middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), invitationHandler.InviteMember)

			projects.POST("/:id/contractors", middleware.RequireProjectAccess(), contractorHandler.CreateContractor)
			projects.POST("/:id/contractors/:contractor_id/link", middleware.RequireProjectAccess(), contractorHandler.LinkContractor)
			projects.DELETE("/:id/contractors/:contractor_id/link", middleware.RequireProjectAccess(), contractorHandler.UnlinkContractor)

			projects.POST("/:id/change-orders", middleware.RequireProjectAccess(), changeOrderHandler.CreateChangeOrder)
			projects.GET("/:id/invoices", middleware.RequireProjectAccess(), invoiceHandler.ListInvoices)
			projects.POST("/:id/invoices", middleware.RequireProjectAccess(), invoiceHandler.CreateInvoice)
			projects.POST("/:id/invoices/ingest", middleware.RequireProjectAccess(), ingestHandler.IngestInvoice)
		}

		// Contractor routes (protected)
		contractors := api.Group("/contractors")
		contractors.Use(middleware.RequireAuth())
		{
			contractors.GET("/:id", middleware.RequireContractorAccess(), contractorHandler.GetContractor)
			contractors.PATCH("/:id", middleware.RequireContractorAccess(), contractorHandler.UpdateContractor)
			contractors.DELETE("/:id", middleware.RequireContractorAccess(), contractorHandler.DeleteContractor)
		}

		// Change order routes (protected)
		changeOrders := api.Group("/change-orders")
		changeOrders.Use(middleware.RequireAuth())
		{
			changeOrders.PATCH("/:id", middleware.RequireChangeOrderAccess(), changeOrderHandler.UpdateChangeOrder)
			changeOrders.DELETE("/:id", middleware.RequireChangeOrderAccess(), changeOrderHandler.DeleteChangeOrder)
		}

		// Invoice routes (protected)
		invoices := api.Group("/invoices")
		invoices.Use(middleware.RequireAuth())
		{
			invoices.GET("/:id", middleware.RequireInvoiceAccess(), invoiceHandler.GetInvoice)
			invoices.PATCH("/:id", middleware.RequireInvoiceAccess(), invoiceHandler.UpdateInvoice)
			invoices.DELETE("/:id", middleware.RequireInvoiceAccess(), invoiceHandler.DeleteInvoice)
			invoices.POST("/:id/pay", middleware.RequireInvoiceAccess(), invoiceHandler.MarkPaid)
		}
	}

	// Start server
	logger.Info("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
