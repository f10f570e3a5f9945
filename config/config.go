package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	TCGCSV   TCGCSVConfig
	Cache    CacheConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds card catalog configuration
type CatalogConfig struct {
	CardsDir string `mapstructure:"cards_dir"`
}

// TCGCSVConfig holds price feed configuration
type TCGCSVConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	CategoryID int    `mapstructure:"category_id"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds matcher tuning configuration
type MatchingConfig struct {
	NumResults         int     `mapstructure:"num_results"`
	MinScore           float64 `mapstructure:"min_score"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tcgwallet/")

	// Environment variable settings. The replacer maps nested keys to env
	// vars, e.g. catalog.cards_dir -> TCGWALLET_CATALOG_CARDS_DIR.
	v.SetEnvPrefix("TCGWALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.cards_dir", "data/cards_by_pack")

	// Price feed defaults
	v.SetDefault("tcgcsv.base_url", "https://tcgcsv.com/tcgplayer")
	v.SetDefault("tcgcsv.category_id", 68) // One Piece Card Game

	// Cache defaults
	v.SetDefault("cache.ttl", "24h") // Feed refreshes daily

	// Matching defaults
	v.SetDefault("matching.num_results", 5)
	v.SetDefault("matching.min_score", 0.3)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.CardsDir == "" {
		return fmt.Errorf("catalog cards dir is required (set TCGWALLET_CATALOG_CARDS_DIR)")
	}

	if config.TCGCSV.BaseURL == "" {
		return fmt.Errorf("price feed base URL must not be empty")
	}

	if config.Matching.NumResults <= 0 {
		return fmt.Errorf("matching num_results must be positive, got: %d", config.Matching.NumResults)
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min_score must be in [0,1], got: %v", config.Matching.MinScore)
	}

	return nil
}
