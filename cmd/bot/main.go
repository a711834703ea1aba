package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/config"
	"github.com/voxnote/reminders-bot/internal/extraction"
	"github.com/voxnote/reminders-bot/internal/notifications"
	"github.com/voxnote/reminders-bot/internal/processing"
	"github.com/voxnote/reminders-bot/internal/scheduler"
	"github.com/voxnote/reminders-bot/internal/segment"
	"github.com/voxnote/reminders-bot/internal/storage"
)

const maxTranscriptBytes = 1 << 20 // 1MB

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Reminders Bot")

	// Initialize storage: Azure blob when an account is configured,
	// local directory otherwise
	var storageClient storage.StorageInterface
	if cfg.StorageAccount != "" {
		storageClient, err = storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	} else {
		storageClient, err = storage.NewLocalStorage(cfg.StorageDir)
	}
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize notification services
	notificationService := notifications.NewService(cfg)

	// Initialize the extraction pipeline
	segmenter, err := segment.NewPunktSegmenter()
	if err != nil {
		logrus.Fatalf("Failed to initialize sentence segmenter: %v", err)
	}
	clk := clock.System()
	pipeline := extraction.NewPipeline(extraction.Config{
		MaxReminders:  cfg.MaxReminders,
		MinConfidence: cfg.MinConfidence,
	}, segmenter, clk)

	// Initialize processing service
	processingService := processing.NewService(cfg, storageClient, notificationService, pipeline, clk)

	// Initialize scheduler
	schedulerService := scheduler.NewService(cfg, processingService)

	// Start scheduler
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server for transcript submission and health checks
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Metrics endpoint
	router.HandleFunc("/metrics", metricsHandler(processingService)).Methods("GET")

	// Transcript submission endpoint
	router.HandleFunc("/transcripts", transcriptHandler(processingService)).Methods("POST")

	// Manual digest trigger endpoint (for testing)
	router.HandleFunc("/trigger", triggerHandler(processingService)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(processingService *processing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := processingService.GetMetrics()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(metrics))
	}
}

type transcriptRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func transcriptHandler(processingService *processing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxTranscriptBytes))
		if err != nil {
			http.Error(w, `{"error":"failed to read request body"}`, http.StatusBadRequest)
			return
		}

		var req transcriptRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}
		if req.Source == "" {
			req.Source = "api"
		}

		reminders, err := processingService.ProcessTranscript(req.Text, req.Source)
		if err != nil {
			logrus.Errorf("Transcript processing failed: %v", err)
			http.Error(w, `{"error":"processing failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":     len(reminders),
			"reminders": reminders,
		})
	}
}

func triggerHandler(processingService *processing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := processingService.RunDigest(); err != nil {
				logrus.Errorf("Manual digest trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Digest triggered successfully"}`))
	}
}
