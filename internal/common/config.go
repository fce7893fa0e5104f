// Package common provides shared utilities for Carteira
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Carteira
type Config struct {
	Environment     string          `toml:"environment"`
	DisplayCurrency string          `toml:"display_currency"` // Currency used when formatting amounts (default "BRL")
	Server          ServerConfig    `toml:"server"`
	Storage         StorageConfig   `toml:"storage"`
	Cache           CacheConfig     `toml:"cache"`
	Clients         ClientsConfig   `toml:"clients"`
	Ranking         RankingConfig   `toml:"ranking"`
	Scheduler       SchedulerConfig `toml:"scheduler"`
	Logos           LogoConfig      `toml:"logos"`
	Logging         LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Storage backend names
const (
	BackendBadger    = "badger"
	BackendSurrealDB = "surrealdb"
	BackendMemory    = "memory"
)

// StorageConfig selects the key-value backend that holds the quote cache slot.
type StorageConfig struct {
	Backend   string          `toml:"backend"` // badger (default), surrealdb, memory
	Badger    BadgerConfig    `toml:"badger"`
	SurrealDB SurrealDBConfig `toml:"surrealdb"`
}

// BadgerConfig holds the embedded store location.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// SurrealDBConfig holds the remote store connection.
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// CacheConfig holds quote cache settings.
type CacheConfig struct {
	Duration       string `toml:"duration"`
	QuotesKey      string `toml:"quotes_key"`
	TimestampKey   string `toml:"timestamp_key"`
	RefetchMissing bool   `toml:"refetch_missing"` // fetch symbols missing from a fresh cache
}

// GetDuration parses and returns the cache validity window
func (c *CacheConfig) GetDuration() time.Duration {
	d, err := time.ParseDuration(c.Duration)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Brapi  BrapiConfig  `toml:"brapi"`
	Wallet WalletConfig `toml:"wallet"`
}

// BrapiConfig holds quote provider configuration
type BrapiConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	Timeout      string `toml:"timeout"`
	RequestDelay string `toml:"request_delay"` // fixed pause between sequential quote requests
	RateLimit    int    `toml:"rate_limit"`    // requests per second; 0 selects the fixed delay pacer
}

// GetTimeout parses and returns the per-request timeout
func (c *BrapiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetRequestDelay parses and returns the inter-request delay
func (c *BrapiConfig) GetRequestDelay() time.Duration {
	d, err := time.ParseDuration(c.RequestDelay)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// WalletConfig holds the wallet API configuration. Paths are relative to BaseURL.
type WalletConfig struct {
	BaseURL                 string `toml:"base_url"`
	Timeout                 string `toml:"timeout"`
	HoldingsPath            string `toml:"holdings_path"`
	AssetsPath              string `toml:"assets_path"`
	TotalsPath              string `toml:"totals_path"`
	DividendPerformancePath string `toml:"dividend_performance_path"`
	DistributionPath        string `toml:"distribution_path"`
	WalletCompletePath      string `toml:"wallet_complete_path"`    // year is appended
	DividendsCompletePath   string `toml:"dividends_complete_path"` // year is appended
	TransactionsPath        string `toml:"transactions_path"`
}

// GetTimeout parses and returns the timeout duration
func (c *WalletConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RankingConfig holds ranking defaults.
type RankingConfig struct {
	TopN int `toml:"top_n"`
}

// SchedulerConfig controls background quote refreshes.
type SchedulerConfig struct {
	RefreshInterval string `toml:"refresh_interval"` // "0" or "off" disables the scheduler
	WarmOnStart     bool   `toml:"warm_on_start"`
}

// GetRefreshInterval parses the refresh interval. Zero means disabled.
func (c *SchedulerConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == "off" {
		return 0
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LogoConfig holds logo URLs for assets that have no provider logo.
type LogoConfig struct {
	Treasury       string `toml:"treasury"`
	RealEstateFund string `toml:"real_estate_fund"`
	Fallback       string `toml:"fallback"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "BRL",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Backend: BackendBadger,
			Badger:  BadgerConfig{Path: "data/cache"},
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "carteira",
				Database:  "carteira",
			},
		},
		Cache: CacheConfig{
			Duration:     "15m",
			QuotesKey:    "brapi_cache",
			TimestampKey: "brapi_cache_timestamp",
		},
		Clients: ClientsConfig{
			Brapi: BrapiConfig{
				BaseURL:      "https://brapi.dev/api/quote",
				Timeout:      "10s",
				RequestDelay: "500ms",
			},
			Wallet: WalletConfig{
				BaseURL:                 "http://localhost:8000",
				Timeout:                 "30s",
				HoldingsPath:            "/wallet",
				AssetsPath:              "/wallet/assets/all",
				TotalsPath:              "/wallet/totals",
				DividendPerformancePath: "/dividends/performance",
				DistributionPath:        "/wallet/distribution",
				WalletCompletePath:      "/wallet/complete/",
				DividendsCompletePath:   "/dividends/complete/",
				TransactionsPath:        "/transactions/all",
			},
		},
		Ranking: RankingConfig{TopN: 3},
		Scheduler: SchedulerConfig{
			RefreshInterval: "15m",
			WarmOnStart:     true,
		},
		Logos: LogoConfig{
			Treasury:       "/treasureLogo.png",
			RealEstateFund: "/FIILogo.png",
			Fallback:       "/fallback-logo.png",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/carteira.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalize(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CARTEIRA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CARTEIRA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CARTEIRA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CARTEIRA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CARTEIRA_DATA_PATH"); path != "" {
		config.Storage.Badger.Path = filepath.Join(path, "cache")
	}

	if backend := os.Getenv("CARTEIRA_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if url := os.Getenv("CARTEIRA_WALLET_URL"); url != "" {
		config.Clients.Wallet.BaseURL = url
	}

	if d := os.Getenv("CARTEIRA_CACHE_DURATION"); d != "" {
		config.Cache.Duration = d
	}

	for _, name := range []string{"BRAPI_API_KEY", "CARTEIRA_BRAPI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Brapi.APIKey = v
			break
		}
	}
}

// normalize fills values that must never be empty after loading.
func normalize(config *Config) {
	config.DisplayCurrency = strings.ToUpper(strings.TrimSpace(config.DisplayCurrency))
	if config.DisplayCurrency == "" {
		config.DisplayCurrency = "BRL"
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = BackendBadger
	}
	if config.Cache.QuotesKey == "" {
		config.Cache.QuotesKey = "brapi_cache"
	}
	if config.Cache.TimestampKey == "" {
		config.Cache.TimestampKey = "brapi_cache_timestamp"
	}
	if config.Ranking.TopN <= 0 {
		config.Ranking.TopN = 3
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
