package domain

import (
	"context"
	"time"
)

// CardCatalog exposes the read-only card snapshot loaded at process start.
// Snapshot must return an immutable slice; a reload swaps in a fresh snapshot
// atomically so in-flight rankings never observe a partial catalog.
type CardCatalog interface {
	Snapshot() []CatalogCard
	Packs() []Pack
	PackByID(id string) (*Pack, error)
	PackLabel(packID string) (string, error)
	FindCardsByBaseID(baseID string) []CatalogCard
	FindPackIDsByBaseID(baseID string) []string
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PriceClient defines the interface for the TCGPlayer price feed
type PriceClient interface {
	Groups(ctx context.Context) ([]PriceGroup, error)
	Products(ctx context.Context, groupID int) ([]PriceProduct, error)
	Prices(ctx context.Context, groupID int) ([]ProductPrice, error)
}
