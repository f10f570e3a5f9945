package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tcgwallet/backend/internal/domain"
)

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// PricingService serves TCGPlayer price data with caching. The upstream feed
// refreshes daily, so cached responses are served for the configured TTL
// before the client is consulted again.
type PricingService struct {
	cache              domain.CacheRepository
	client             domain.PriceClient
	catalog            domain.CardCatalog
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewPricingService creates a new pricing service with dependencies
func NewPricingService(
	cache domain.CacheRepository,
	client domain.PriceClient,
	catalog domain.CardCatalog,
	config PricingServiceConfig,
) *PricingService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour // Upstream feed updates daily
	}

	return &PricingService{
		cache:              cache,
		client:             client,
		catalog:            catalog,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Groups returns all price groups (sets/expansions), cached.
func (s *PricingService) Groups(ctx context.Context) ([]domain.PriceGroup, error) {
	const cacheKey = "tcgcsv:groups"

	var cached []domain.PriceGroup
	if s.getCached(ctx, cacheKey, &cached) {
		if s.enableDebugLogging {
			log.Printf("[PRICING] Groups served from cache (%d groups)", len(cached))
		}
		return cached, nil
	}

	groups, err := s.client.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceAPIFailure, err)
	}

	s.setCached(ctx, cacheKey, groups)
	return groups, nil
}

// Products returns all products for one price group, cached per group.
func (s *PricingService) Products(ctx context.Context, groupID int) ([]domain.PriceProduct, error) {
	cacheKey := fmt.Sprintf("tcgcsv:products:%d", groupID)

	var cached []domain.PriceProduct
	if s.getCached(ctx, cacheKey, &cached) {
		return cached, nil
	}

	products, err := s.client.Products(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceAPIFailure, err)
	}

	s.setCached(ctx, cacheKey, products)
	return products, nil
}

// Prices returns the price spread for every product in one group, cached per
// group.
func (s *PricingService) Prices(ctx context.Context, groupID int) ([]domain.ProductPrice, error) {
	cacheKey := fmt.Sprintf("tcgcsv:prices:%d", groupID)

	var cached []domain.ProductPrice
	if s.getCached(ctx, cacheKey, &cached) {
		return cached, nil
	}

	prices, err := s.client.Prices(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceAPIFailure, err)
	}

	s.setCached(ctx, cacheKey, prices)
	return prices, nil
}

// GroupForPack resolves the price group for a catalog pack by matching the
// group abbreviation against the pack label (e.g. "OP-10").
func (s *PricingService) GroupForPack(ctx context.Context, packID string) (*domain.PriceGroup, error) {
	label, err := s.catalog.PackLabel(packID)
	if err != nil {
		return nil, err
	}

	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		if groups[i].Abbreviation == label {
			return &groups[i], nil
		}
	}

	return nil, fmt.Errorf("%w: pack %s (label %s)", domain.ErrGroupNotFound, packID, label)
}

// getCached loads a JSON-encoded cache entry into out. A miss or a decode
// failure is treated the same: fetch fresh.
func (s *PricingService) getCached(ctx context.Context, key string, out interface{}) bool {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}

	raw, ok := value.(string)
	if !ok {
		return false
	}

	return json.Unmarshal([]byte(raw), out) == nil
}

// setCached stores a value as a JSON string. Cache failures are logged but
// never fail the request.
func (s *PricingService) setCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[PRICING] Failed to encode cache entry %q: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		log.Printf("[PRICING] Failed to cache %q: %v", key, err)
	}
}
