package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "safetrack/docs" // This is for Swagger
	"safetrack/internal/auth"
	"safetrack/internal/config"
	"safetrack/internal/database"
	"safetrack/internal/email"
	"safetrack/internal/handlers"
	"safetrack/internal/logger"
	"safetrack/internal/middleware"
	"safetrack/internal/repository"
	"safetrack/internal/scheduler"
	"safetrack/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title SafeTrack API
// @version 1.0
// @description Backend API for workplace safety inspections and corrective action tracking

// @contact.name API Support
// @contact.email support@safetrack.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	roleRepo := repository.NewRoleRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)
	checklistRepo := repository.NewChecklistRepository(db.DB)
	inspectionRepo := repository.NewInspectionRepository(db.DB)
	responseRepo := repository.NewResponseRepository(db.DB)
	actionRepo := repository.NewActionRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	emailService := email.NewService(&cfg.Email)
	authSvc := service.NewAuthService(userRepo, roleRepo, authService, auditRepo)
	checklistSvc := service.NewChecklistService(checklistRepo, auditRepo)
	actionSvc := service.NewActionService(actionRepo, auditRepo)
	inspectionSvc := service.NewInspectionService(
		checklistRepo,
		inspectionRepo,
		responseRepo,
		actionRepo,
		userRepo,
		emailService,
		auditRepo,
		cfg.Notify,
	)

	// Initialize scheduler
	schedulerService := scheduler.NewScheduler(
		actionRepo,
		inspectionRepo,
		checklistRepo,
		userRepo,
		emailService,
		&cfg.Scheduler,
		&cfg.Notify,
	)
	schedulerService.Start()
	defer schedulerService.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware(db.DB)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	checklistHandler := handlers.NewChecklistHandler(checklistSvc)
	inspectionHandler := handlers.NewInspectionHandler(inspectionSvc, authSvc)
	actionHandler := handlers.NewActionHandler(actionSvc)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	healthHandler := handlers.NewHealthHandler(db, cfg)

	// Setup router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Authenticated routes
	mux.Handle("GET /api/v1/auth/profile",
		authMw.Authenticate(http.HandlerFunc(authHandler.Profile)))

	// Checklist routes - any authenticated user may browse
	mux.Handle("GET /api/v1/checklists",
		authMw.Authenticate(http.HandlerFunc(checklistHandler.List)))
	mux.Handle("GET /api/v1/checklists/{id}",
		authMw.Authenticate(http.HandlerFunc(checklistHandler.Get)))

	// Checklist administration - admin only
	mux.Handle("POST /api/v1/checklists",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(checklistHandler.Create),
			),
		),
	)
	mux.Handle("PUT /api/v1/checklists/{id}",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(checklistHandler.Update),
			),
		),
	)
	mux.Handle("POST /api/v1/checklists/{id}/items",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(checklistHandler.AddItem),
			),
		),
	)
	mux.Handle("PUT /api/v1/checklists/{id}/items/{itemID}",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(checklistHandler.UpdateItem),
			),
		),
	)
	mux.Handle("DELETE /api/v1/checklists/{id}/items/{itemID}",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(checklistHandler.RemoveItem),
			),
		),
	)

	// Inspection lifecycle - inspectors
	mux.Handle("POST /api/v1/inspections",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("inspector", "admin")(
				http.HandlerFunc(inspectionHandler.Start),
			),
		),
	)
	mux.Handle("GET /api/v1/inspections",
		authMw.Authenticate(http.HandlerFunc(inspectionHandler.ListMine)))
	mux.Handle("GET /api/v1/inspections/{id}",
		authMw.Authenticate(http.HandlerFunc(inspectionHandler.Get)))
	mux.Handle("POST /api/v1/inspections/{id}/submit",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("inspector", "admin")(
				http.HandlerFunc(inspectionHandler.Submit),
			),
		),
	)
	mux.Handle("GET /api/v1/inspections/{id}/stats",
		authMw.Authenticate(http.HandlerFunc(inspectionHandler.Stats)))
	mux.Handle("GET /api/v1/inspections/{id}/report",
		authMw.Authenticate(http.HandlerFunc(inspectionHandler.Report)))
	mux.Handle("GET /api/v1/inspections/{id}/report/pdf",
		authMw.Authenticate(http.HandlerFunc(inspectionHandler.ReportPDF)))

	// Corrective actions - safety managers and admins
	mux.Handle("GET /api/v1/actions",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("safety_manager", "admin")(
				http.HandlerFunc(actionHandler.List),
			),
		),
	)
	mux.Handle("GET /api/v1/actions/{id}",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("safety_manager", "admin")(
				http.HandlerFunc(actionHandler.Get),
			),
		),
	)
	mux.Handle("POST /api/v1/actions",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("safety_manager", "admin")(
				http.HandlerFunc(actionHandler.Create),
			),
		),
	)
	mux.Handle("PUT /api/v1/actions/{id}/status",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("safety_manager", "admin")(
				http.HandlerFunc(actionHandler.UpdateStatus),
			),
		),
	)

	// Admin routes
	mux.Handle("GET /api/v1/admin/audit-logs",
		authMw.Authenticate(
			rbacMw.RequireRole("admin")(
				http.HandlerFunc(auditHandler.List),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
