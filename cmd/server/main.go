package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stride/running-app/internal/api"
	"stride/running-app/internal/config"
	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/service"
	"stride/running-app/internal/storage"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Stride server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Durable Storage ---
	var backend storage.Store
	switch cfg.Database.Driver {
	case "mongo":
		client, err := storage.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		backend = storage.NewMongoStore(client, cfg.Database.Name)
	case "sqlite", "":
		sqliteStore, err := storage.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			log.Fatalf("FATAL: Could not open SQLite database: %v", err)
		}
		backend = sqliteStore
	default:
		log.Fatalf("FATAL: Unknown database driver %q", cfg.Database.Driver)
	}
	defer func() {
		log.Println("Closing storage...")
		if err := backend.Close(context.Background()); err != nil {
			log.Printf("ERROR: Failed to close storage: %v", err)
		}
	}()
	log.Printf("Durable storage ready (driver=%s).", cfg.Database.Driver)

	// --- Entity Store & Coordinator ---
	entities := store.New(backend)
	coord := coordinator.New(entities)

	// --- Services ---
	log.Println("Initializing services...")
	planner := service.NewPlannerService(cfg.Planner.URL)
	strava := service.NewStravaService(cfg.Strava.ClientID, cfg.Strava.ClientSecret)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg, entities, coord, planner, strava)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 150 * time.Second, // plan generation is slow
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
