package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/api"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/broker"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/config"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/controllers"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/database"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/mapper"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/repository"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := cfg.ShotGrid.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.FileMaker.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create repositories
	fieldMappingRepo := repository.NewFieldMappingRepository(db)
	syncRunRepo := repository.NewSyncRunRepository(db)

	// Seed the mapping table on first start, then load it once. The table
	// is immutable for the life of the process.
	if err := fieldMappingRepo.Seed(mapper.DefaultMappings()); err != nil {
		log.Fatalf("Failed to seed field mappings: %v", err)
	}
	entries, err := fieldMappingRepo.LoadActive()
	if err != nil {
		log.Fatalf("Failed to load field mappings: %v", err)
	}
	table, err := mapper.NewTable(entries)
	if err != nil {
		log.Fatalf("Invalid field mapping table: %v", err)
	}
	log.Printf("[mapper] Loaded %d field mappings", len(entries))

	// Create upstream clients
	sgClient := api.NewShotGridClient(cfg.ShotGrid)
	fmClient := api.NewFileMakerClient(cfg.FileMaker)

	// Create broker publisher (optional)
	var publisher services.EventPublisher
	if cfg.Broker.Enabled() {
		p, err := broker.NewPublisher(&cfg.Broker)
		if err != nil {
			log.Fatalf("Failed to create broker publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// Create services
	syncService := services.NewSyncService(sgClient, fmClient, table, syncRunRepo, publisher)

	// Create handlers
	syncHandler := controllers.NewSyncHandler(syncService)
	mappingsHandler := controllers.NewMappingsHandler(table)
	runsHandler := controllers.NewRunsHandler(syncRunRepo)

	// Create router
	router := mux.NewRouter()

	// Mount routes
	router.HandleFunc("/send_plates", syncHandler.HandleSendPlates).Methods("GET", "POST")
	router.HandleFunc("/health", syncHandler.HandleHealth).Methods("GET")
	router.HandleFunc("/api/mappings", mappingsHandler.HandleListMappings).Methods("GET")
	router.HandleFunc("/api/runs", runsHandler.HandleListRuns).Methods("GET")
	router.HandleFunc("/api/runs/{id}", runsHandler.HandleGetRun).Methods("GET")

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("[plate-pusher] Server running on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[plate-pusher] Shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[plate-pusher] Server stopped")
}
