package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scorecraft/scorecraft-api/internal/config"
	"github.com/scorecraft/scorecraft-api/internal/connect"
	"github.com/scorecraft/scorecraft-api/internal/container"
	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/mailer"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/routes"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting ScoreCraft API server", "environment", cfg.Environment, "store", cfg.StoreDriver)

	ctx := context.Background()

	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	validator, err := helpers.NewTokenValidator(ctx, cfg.SupabaseURL, cfg.SupabaseJWTSecret)
	if err != nil {
		logger.Error("Failed to set up token validation", "error", err)
		os.Exit(1)
	}
	defer validator.Close()

	var (
		store       models.DocumentStore
		mongoClient *mongo.Client
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		store = models.NewMemoryStore()
	default:
		mongoClient, err = connect.MongoDBConnect(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)
		store = models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
	}

	appContainer := container.NewContainer(cfg, logger, container.Gateways{
		Store:          store,
		Uploader:       helpers.NewImageUploader(cld),
		Notifier:       mailer.NewSMTPMailer(cfg, logger),
		Auth:           models.SupabaseNewRepo(supaClient),
		TokenValidator: validator,
	})

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No write timeout: SSE streams stay open for as long as the page does.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
