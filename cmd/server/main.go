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

	"github.com/nutriscan/backend/config"
	httpDelivery "github.com/nutriscan/backend/internal/delivery/http"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/cache"
	"github.com/nutriscan/backend/internal/infrastructure/gemini"
	"github.com/nutriscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/nutriscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	if cfg.Cache.Type == "redis" {
		log.Printf("WARNING: redis cache is not wired up yet, using in-memory cache")
	}
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	productSource := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL: cfg.OpenFoodFacts.BaseURL,
		Timeout: cfg.OpenFoodFacts.Timeout,
		Offline: cfg.OpenFoodFacts.Offline,
	})
	if cfg.OpenFoodFacts.Offline {
		log.Printf("Open Food Facts: offline mode, serving built-in products only")
	} else {
		log.Printf("Open Food Facts: %s", cfg.OpenFoodFacts.BaseURL)
	}

	var generator domain.TextGenerator
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			RequestTimeout:    cfg.Gemini.RequestTimeout,
			RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		generator = client
		log.Printf("Gemini model: %s", cfg.Gemini.Model)
	} else {
		generator = gemini.Disabled{}
		log.Printf("WARNING: no Gemini API key configured, evaluators will use deterministic fallbacks")
	}

	// Initialize usecase layer
	scanService := usecase.NewScanService(
		productSource,
		memoryCache,
		usecase.ScanServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	evaluationService := usecase.NewEvaluationService(
		usecase.NewHealthEvaluator(generator),
		usecase.NewFitnessEvaluator(generator),
		usecase.NewPriceEvaluator(usecase.PriceConfig{}),
		generator,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(evaluationService, scanService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until an interrupt arrives, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Printf("Server exited")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
