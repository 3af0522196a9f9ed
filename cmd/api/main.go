package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careeros-backend/config"
	_ "careeros-backend/docs" // Important for Swagger
	"careeros-backend/internal/delivery/http/v1"
	"careeros-backend/internal/llm"
	"careeros-backend/internal/repository/postgres"
	"careeros-backend/internal/usecase"
	"careeros-backend/pkg/database"
	"careeros-backend/pkg/logger"
	"careeros-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           CareerOS Backend API
// @version         1.0
// @description     Job-application tracking backend with AI-assisted job intelligence.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting careeros backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional - rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)

	// 6. Setup LLM capabilities (one Claude provider backs all three)
	claude := llm.NewClaudeProvider(cfg)

	// 7. Setup UseCases
	validate := validator.New()
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, profileRepo, claude, claude, claude, cfg.LLMTimeout)
	profileUC := usecase.NewProfileUsecase(profileRepo, validate)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ApplicationUC: applicationUC,
		ProfileUC:     profileUC,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exited")
}
