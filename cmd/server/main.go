package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/issue-stats/internal/api"
	"github.com/Kamar-Folarin/issue-stats/internal/config"
	"github.com/Kamar-Folarin/issue-stats/internal/db"
	"github.com/Kamar-Folarin/issue-stats/internal/github"
	"github.com/Kamar-Folarin/issue-stats/internal/stats"

	_ "github.com/Kamar-Folarin/issue-stats/docs"
)

// @title Issue Stats API
// @version 1.0
// @description Daily running totals of opened and closed issues for a GitHub repository
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate minimum required config
	if cfg.DBConnectionString == "" || cfg.GitHubToken == "" || cfg.SyncSecret == "" {
		logger.Fatal("Missing required configuration (DB_CONNECTION_STRING, GITHUB_TOKEN and SYNC_SECRET must be set)")
	}

	// Initialize database
	store, err := db.NewPostgresStore(cfg.DBConnectionString)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Run migrations with retry logic
	if err := retry(3, 5*time.Second, func() error {
		return store.Migrate()
	}); err != nil {
		logger.Fatalf("Failed to run migrations after retries: %v", err)
	}

	// Initialize services
	ghCfg := config.DefaultGitHubConfig()
	client := github.NewGitHubClient(cfg.GitHubToken, logger,
		github.WithBaseURL(ghCfg.APIBaseURL),
		github.WithRetryConfig(ghCfg.RateLimit.MaxRetries, ghCfg.RateLimit.InitialBackoff, ghCfg.RateLimit.MaxBackoff),
	)
	statsService := stats.NewService(client, store, logger)
	handler := api.NewHandler(statsService, api.Defaults{
		RepoOwner: cfg.DefaultRepoOwner,
		RepoName:  cfg.DefaultRepoName,
		MaxPages:  cfg.DefaultMaxPages,
	}, logger)

	router := api.SetupRouter(handler, cfg.SyncSecret)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
