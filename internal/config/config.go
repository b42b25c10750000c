package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the public CoinGecko API root
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultAPIKeyHeader carries the demo API key
	DefaultAPIKeyHeader = "x-cg-demo-api-key"
)

// Config represents the main configuration structure
type Config struct {
	MarketAPI   MarketAPIConfig   `yaml:"market_api"`
	Query       QueryConfig       `yaml:"query"`
	Market      MarketConfig      `yaml:"market"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Wallet      WalletConfig      `yaml:"wallet"`
	Prefetch    PrefetchConfig    `yaml:"prefetch"`
	Server      ServerConfig      `yaml:"server"`
	BigCache    BigCacheConfig    `yaml:"bigcache"`
	KeyDB       KeyDBConfig       `yaml:"keydb"`
	MultiCache  MultiCacheConfig  `yaml:"multi_cache"`
}

// MarketAPIConfig configures the upstream market-data API transport
type MarketAPIConfig struct {
	BaseURL             string        `yaml:"base_url" validate:"required,url"`
	APIKey              string        `yaml:"api_key"`
	APIKeyHeader        string        `yaml:"api_key_header"`
	Timeout             time.Duration `yaml:"timeout" validate:"gt=0"`
	RateLimitRetries    int           `yaml:"rate_limit_retries" validate:"gte=0,lte=10"`
	RateLimitBaseDelay  time.Duration `yaml:"rate_limit_base_delay" validate:"gt=0"`
	RequestsPerSecond   float64       `yaml:"requests_per_second" validate:"gte=0"`
	Burst               int           `yaml:"burst" validate:"gte=0"`
	UserAgent           string        `yaml:"user_agent"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" validate:"gte=0"`
}

// QueryConfig holds the default freshness and retry policy of the query layer
type QueryConfig struct {
	StaleTime       time.Duration `yaml:"stale_time" validate:"gte=0"`
	RefetchInterval time.Duration `yaml:"refetch_interval" validate:"gte=0"`
	Retry           int           `yaml:"retry" validate:"gte=0,lte=10"`
	RetryDelay      time.Duration `yaml:"retry_delay" validate:"gte=0"`
}

// MarketConfig shapes the market accessors
type MarketConfig struct {
	PageSize        int           `yaml:"page_size" validate:"gt=0,lte=250"`
	SearchLimit     int           `yaml:"search_limit" validate:"gt=0"`
	SearchMinLength int           `yaml:"search_min_length" validate:"gte=0"`
	SearchDebounce  time.Duration `yaml:"search_debounce" validate:"gte=0"`
	ListingRetry    int           `yaml:"listing_retry" validate:"gte=0,lte=10"`
	GlobalRetry     int           `yaml:"global_retry" validate:"gte=0,lte=10"`
}

// PreferencesConfig selects where user preferences are persisted
type PreferencesConfig struct {
	Backend  string `yaml:"backend" validate:"oneof=file keydb memory"`
	FilePath string `yaml:"file_path" validate:"required_if=Backend file"`
}

// WalletConfig configures the Ethereum node used by the wallet panel
type WalletConfig struct {
	Enabled bool          `yaml:"enabled"`
	RPCURL  string        `yaml:"rpc_url" validate:"required_if=Enabled true,omitempty,url"`
	Symbol  string        `yaml:"symbol"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	// ENS enables reverse name lookups; only meaningful on mainnet
	ENS bool `yaml:"ens"`
}

// PrefetchConfig configures the scheduled warm-up of market listings
type PrefetchConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Schedule   string   `yaml:"schedule" validate:"required_if=Enabled true"`
	Currencies []string `yaml:"currencies" validate:"dive,oneof=usd eur pkr"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// BigCacheConfig configures the in-process L1 response cache
type BigCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size" validate:"gte=0"` // in MB
}

// KeyDBConnectionConfig holds KeyDB connection timeouts
type KeyDBConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeyDBKeepaliveConfig holds KeyDB pool settings
type KeyDBKeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// KeyDBConfig configures the L2 response cache and the keydb preference backend
type KeyDBConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	Connection KeyDBConnectionConfig `yaml:"connection"`
	Keepalive  KeyDBKeepaliveConfig  `yaml:"keepalive"`
}

// MultiCacheConfig configures the multi-level cache
type MultiCacheConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// GetReadTimeout returns the KeyDB read timeout
func (c *KeyDBConfig) GetReadTimeout() time.Duration {
	return c.Connection.ReadTimeout
}

// GetSendTimeout returns the KeyDB send timeout
func (c *KeyDBConfig) GetSendTimeout() time.Duration {
	return c.Connection.SendTimeout
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	config := newConfig()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	config := newConfig()
	config.applyDefaults()
	return &config
}

// newConfig presets the retry counts before decoding. Zero is a valid retry count, so
// these are only defaulted when the YAML omits them.
func newConfig() Config {
	return Config{
		MarketAPI: MarketAPIConfig{RateLimitRetries: 2},
		Query:     QueryConfig{Retry: 1},
		Market:    MarketConfig{ListingRetry: 3, GlobalRetry: 3},
	}
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// applyEnvOverrides lets deployment secrets and endpoints come from the environment
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MARKET_API_BASE_URL"); v != "" {
		c.MarketAPI.BaseURL = v
	}
	if v := os.Getenv("MARKET_API_KEY"); v != "" {
		c.MarketAPI.APIKey = v
	}
	if v := os.Getenv("WALLET_RPC_URL"); v != "" {
		c.Wallet.RPCURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	c.MarketAPI.applyDefaults()
	c.Query.applyDefaults()
	c.Market.applyDefaults()
	c.Preferences.applyDefaults()
	c.Wallet.applyDefaults()
	c.Prefetch.applyDefaults()
	c.Server.applyDefaults()
	c.BigCache.applyDefaults()
	c.KeyDB.applyDefaults()
}

func (c *MarketAPIConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = DefaultAPIKeyHeader
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RateLimitBaseDelay == 0 {
		c.RateLimitBaseDelay = time.Second
	}
	if c.RequestsPerSecond > 0 && c.Burst == 0 {
		c.Burst = 1
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = 10
	}
}

func (c *QueryConfig) applyDefaults() {
	if c.StaleTime == 0 {
		c.StaleTime = 60 * time.Second
	}
	if c.RefetchInterval == 0 {
		c.RefetchInterval = 120 * time.Second
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
}

func (c *MarketConfig) applyDefaults() {
	if c.PageSize == 0 {
		c.PageSize = 15
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 5
	}
	if c.SearchMinLength == 0 {
		c.SearchMinLength = 3
	}
	if c.SearchDebounce == 0 {
		c.SearchDebounce = 300 * time.Millisecond
	}
}

func (c *PreferencesConfig) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.Backend == "file" && c.FilePath == "" {
		c.FilePath = "/app/data/preferences.json"
	}
}

func (c *WalletConfig) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "ETH"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

func (c *PrefetchConfig) applyDefaults() {
	if c.Schedule == "" {
		c.Schedule = "@every 2m"
	}
	if len(c.Currencies) == 0 {
		c.Currencies = []string{"usd", "eur", "pkr"}
	}
}

func (c *ServerConfig) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
}

func (c *BigCacheConfig) applyDefaults() {
	if c.Size == 0 {
		c.Size = 64
	}
}

func (c *KeyDBConfig) applyDefaults() {
	if c.Connection.ConnectTimeout == 0 {
		c.Connection.ConnectTimeout = 2 * time.Second
	}
	if c.Connection.SendTimeout == 0 {
		c.Connection.SendTimeout = time.Second
	}
	if c.Connection.ReadTimeout == 0 {
		c.Connection.ReadTimeout = time.Second
	}
	if c.Keepalive.PoolSize == 0 {
		c.Keepalive.PoolSize = 10
	}
	if c.Keepalive.MaxIdleTimeout == 0 {
		c.Keepalive.MaxIdleTimeout = 30 * time.Second
	}
}
