package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/api"
	"spaces-community-backend/internal/cache"
	"spaces-community-backend/internal/db"
	"spaces-community-backend/internal/mailer"
	"spaces-community-backend/internal/ratelimit"
	"spaces-community-backend/internal/reminder"
	"spaces-community-backend/internal/resolver"
	"spaces-community-backend/internal/schedule"
	"spaces-community-backend/internal/store"
	"spaces-community-backend/internal/twitter"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "spaces-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Twitter.BearerToken == "" {
		logger.Fatalf("Twitter bearer token must be configured.")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Connect to the shared Redis cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatalf("failed to connect to Redis: %v", err)
	}
	logger.Println("Redis connection established")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	appCache := cache.New(rdb, time.Duration(cfg.Cache.StaleRetentionHours)*time.Hour)
	limiter := ratelimit.NewLimiter(rdb)
	twitterClient := twitter.NewClient(&cfg.Twitter)
	sender := mailer.NewSMTPSender(&cfg.Mail)

	spaceResolver := resolver.New(twitterClient, appCache, limiter, appStore, cfg)
	scheduleManager := schedule.NewManager(appStore, appCache, cfg)

	// Initialize and run the reminder dispatcher in the background
	dispatcher := reminder.NewDispatcher(appStore, sender, &cfg.Dispatcher)
	go dispatcher.Run(ctx)

	// Initialize router
	handler := api.NewHandler(spaceResolver, scheduleManager, dispatcher, appStore, sender, limiter, cfg)
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
