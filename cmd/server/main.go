package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tcgwallet/backend/config"
	httpDelivery "github.com/tcgwallet/backend/internal/delivery/http"
	"github.com/tcgwallet/backend/internal/infrastructure/cache"
	"github.com/tcgwallet/backend/internal/infrastructure/catalog"
	"github.com/tcgwallet/backend/internal/infrastructure/tcgcsv"
	"github.com/tcgwallet/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting TCGWallet Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cards dir: %s", cfg.Catalog.CardsDir)

	// Load the card catalog once at startup
	store := catalog.NewStore(cfg.Catalog.CardsDir)
	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load card catalog: %v", err)
	}
	if len(store.Snapshot()) == 0 {
		log.Printf("WARNING: Catalog is empty - match requests will return no results")
	}

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	priceClient := tcgcsv.NewClient(cfg.TCGCSV.BaseURL, cfg.TCGCSV.CategoryID)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		priceClient.SetDebug(true)
		log.Printf("Price client debug mode enabled")
	}
	log.Printf("Price feed configured: %s (category %d)", cfg.TCGCSV.BaseURL, cfg.TCGCSV.CategoryID)

	// Initialize usecase layer
	matcherService := usecase.NewMatcherService(store, usecase.MatcherConfig{
		NumResults:         cfg.Matching.NumResults,
		MinScore:           cfg.Matching.MinScore,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	pricingService := usecase.NewPricingService(memoryCache, priceClient, store, usecase.PricingServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Matching: top %d, min score %.2f, debug=%v",
		cfg.Matching.NumResults,
		cfg.Matching.MinScore,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matcherService, pricingService, store)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
