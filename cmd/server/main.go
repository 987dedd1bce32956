package main

import (
	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Fitness Tracker API
// @version 1.0
// @description Groups joined by invite code, workout plans and progress logs for trainers and trainees.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name jwt
func main() {
	logger.Info.Println("Starting Fitness Tracker Server...")

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn.Printf("Could not read .env file: %v", err)
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error.Fatalf("Could not load config: %v", err)
	}
	logger.SetLogLevel(cfg.Log.Env)
	logger.Info.Println("Configuration loaded.")

	// --- Repositories ---
	var store repository.Store
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn.Println("Using in-memory storage; all data is lost on restart.")
		store = memory.NewStore()
	case "mongo", "":
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			logger.Error.Fatalf("Could not connect to MongoDB: %v", err)
		}
		defer func() {
			logger.Info.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				logger.Error.Printf("Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		logger.Info.Println("Database connection established.")

		// Uniqueness invariants live in these indexes, so serve only once they exist.
		logger.Info.Println("Ensuring database indexes...")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err = mongo.EnsureIndexes(ctx, appDB)
		cancel()
		if err != nil {
			logger.Error.Fatalf("Could not ensure indexes: %v", err)
		}
		store = mongo.NewStore(appDB)
	default:
		logger.Error.Fatalf("Unknown database driver %q", cfg.Database.Driver)
	}

	// --- Storage (optional) ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		logger.Info.Println("Initializing file storage service...")
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Error.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		logger.Info.Println("No S3 bucket configured; invite QR cards are served inline.")
	}

	// --- Services ---
	guard := service.NewGuard(store)
	services := api.Services{
		Auth: service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Groups: service.NewGroupService(store, guard, fileStorage, service.InviteOptions{
			BaseURL:     cfg.Invite.BaseURL,
			QRSize:      cfg.Invite.QRSize,
			QRURLExpiry: cfg.Invite.QRURLExpiry,
		}),
		Workouts: service.NewWorkoutService(store, guard),
		Plans:    service.NewPlanService(store, guard),
		Progress: service.NewProgressService(store, guard),
	}

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Fatalf("ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error.Printf("Server forced to shutdown: %v", err)
	}

	logger.Info.Println("Server exiting.")
}
