package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-market-cache/internal/cache"
	"go-market-cache/internal/cache/l1"
	"go-market-cache/internal/cache/l2"
	"go-market-cache/internal/cache/multi"
	"go-market-cache/internal/cache/noop"
	"go-market-cache/internal/cache/service"
	"go-market-cache/internal/cache_rules"
	"go-market-cache/internal/config"
	"go-market-cache/internal/httpserver"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/market"
	"go-market-cache/internal/models"
	"go-market-cache/internal/prefetch"
	"go-market-cache/internal/preferences"
	"go-market-cache/internal/query"
	"go-market-cache/internal/transport"
	"go-market-cache/internal/wallet"
)

// CompositionRoot holds all application dependencies and wires them in one place.
//
// Initialization order:
// 1. Logger and configuration
// 2. Cache rules
// 3. Upstream transport and query client
// 4. Response cache levels and the cache service
// 5. Market, preference and wallet services
// 6. Prefetcher and HTTP server
type CompositionRoot struct {
	Config     *config.Config
	Logger     *zap.Logger
	CacheRules interfaces.CacheRulesClassifier

	Transport *transport.Client
	Queries   *query.Client

	L1Cache     *l1.BigCache
	L2Cache     *l2.KeyDBCache
	KeyDBClient *l2.RedisKeyDbClient
	EthClient   *ethclient.Client

	CacheService *service.CacheService
	Market       *market.Service
	Preferences  *preferences.Store
	Wallet       *wallet.Service
	Prefetcher   *prefetch.Prefetcher
	HTTPServer   *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"load configuration", root.loadConfig},
		{"load cache rules", root.loadCacheRules},
		{"initialize transport", root.initTransport},
		{"initialize cache components", root.initCacheComponents},
		{"initialize services", root.initServices},
		{"initialize wallet", root.initWallet},
		{"initialize prefetcher", root.initPrefetcher},
		{"initialize HTTP server", root.initHTTPServer},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			_ = root.Cleanup()
			return nil, fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}

	return root, nil
}

func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

func (r *CompositionRoot) loadConfig() error {
	if err := godotenv.Load(); err != nil {
		r.Logger.Debug("No .env file loaded", zap.Error(err))
	}

	cfg, err := config.LoadConfig(envOrDefault("MARKET_CACHE_CONFIG_FILE", defaultConfigPath), r.Logger)
	if err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

// loadCacheRules reads CACHE_RULES_FILE. Without an explicit file and without the default
// file the built-in rules are used.
func (r *CompositionRoot) loadCacheRules() error {
	rulesPath := envOrDefault("CACHE_RULES_FILE", defaultCacheRulesPath)

	var rules *cache_rules.CacheConfig
	if rulesPath == defaultCacheRulesPath && !fileExists(rulesPath) {
		r.Logger.Info("Cache rules file not found, using built-in rules", zap.String("path", rulesPath))
		rules = cache_rules.NewCacheConfig(cache_rules.DefaultRules(), r.Logger)
	} else {
		loaded, err := cache_rules.LoadCacheRulesConfig(rulesPath, r.Logger)
		if err != nil {
			return err
		}
		rules = loaded
	}

	r.CacheRules = cache_rules.NewClassifier(r.Logger, rules)
	return nil
}

func (r *CompositionRoot) initTransport() error {
	r.Transport = transport.NewClient(r.Config.MarketAPI, r.Logger)
	r.Queries = query.NewClient(r.Config.Query, r.Logger, QueryMetrics{})
	return nil
}

func (r *CompositionRoot) initCacheComponents() error {
	var levels []multi.Level

	if r.Config.BigCache.Enabled {
		l1Cache, err := l1.NewBigCache(r.Config.BigCache, r.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize L1 cache: %w", err)
		}
		r.L1Cache = l1Cache
		levels = append(levels, multi.Level{Name: models.CacheLevelL1, Cache: l1Cache})
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.Logger.Info("BigCache (L1) disabled")
	}

	if r.Config.KeyDB.Enabled || r.Config.Preferences.Backend == "keydb" {
		keydbURL := GetKeyDBURL(r.Logger)
		client, err := l2.NewRedisKeyDbClient(r.Config.KeyDB, keydbURL, r.Logger)
		if err != nil {
			if r.Config.Preferences.Backend == "keydb" {
				return err
			}
			r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 cache", zap.Error(err))
		} else {
			r.KeyDBClient = client
		}
	}

	if r.Config.KeyDB.Enabled && r.KeyDBClient != nil {
		r.L2Cache = l2.NewKeyDBCache(r.Config.KeyDB, r.KeyDBClient, r.Logger)
		levels = append(levels, multi.Level{Name: models.CacheLevelL2, Cache: r.L2Cache})
		r.Logger.Info("KeyDB (L2) initialized")
	}

	var responseCache interfaces.LevelAwareCache = noop.NewNoOpCache()
	if len(levels) > 0 {
		responseCache = multi.NewMultiCache(levels, r.Config.MultiCache.EnablePropagation, r.Logger)
	}

	r.CacheService = service.NewCacheService(responseCache, cache.NewKeyBuilder(), r.CacheRules, r.Transport, r.Logger)
	return nil
}

func (r *CompositionRoot) initServices() error {
	r.Market = market.NewService(r.Transport, r.Queries, r.Config.Market, r.Logger)

	backend, err := r.preferenceBackend()
	if err != nil {
		return err
	}
	r.Preferences = preferences.NewStore(backend, r.Logger)
	return nil
}

func (r *CompositionRoot) preferenceBackend() (interfaces.PreferenceBackend, error) {
	cfg := r.Config.Preferences
	switch cfg.Backend {
	case "memory":
		r.Logger.Warn("Preferences are kept in memory and lost on restart")
		return preferences.NewMemoryBackend(), nil
	case "keydb":
		return preferences.NewKeyDBBackend(r.KeyDBClient, r.Config.KeyDB.GetSendTimeout()), nil
	default:
		backend, err := preferences.NewFileBackend(cfg.FilePath, r.Logger)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}

func (r *CompositionRoot) initWallet() error {
	if !r.Config.Wallet.Enabled {
		r.Logger.Info("Wallet support disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Config.Wallet.Timeout)
	defer cancel()
	client, err := ethclient.DialContext(ctx, r.Config.Wallet.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial Ethereum node: %w", err)
	}
	r.EthClient = client

	var ens interfaces.ENSResolver
	if r.Config.Wallet.ENS {
		ens = wallet.NewENSReverseResolver(client)
	}
	r.Wallet = wallet.NewService(client, ens, r.Queries, r.Config.Wallet, r.Logger)
	return nil
}

func (r *CompositionRoot) initPrefetcher() error {
	if !r.Config.Prefetch.Enabled {
		return nil
	}
	p, err := prefetch.New(r.Config.Prefetch, r.Market, r.Config.MarketAPI.Timeout*2, r.Logger)
	if err != nil {
		return err
	}
	r.Prefetcher = p
	return nil
}

func (r *CompositionRoot) initHTTPServer() error {
	checks := map[string]interfaces.HealthChecker{"market_api": r.Transport}
	if r.L2Cache != nil {
		checks["keydb"] = r.L2Cache
	}
	if r.EthClient != nil {
		checks["ethereum"] = ethHealth{client: r.EthClient}
	}

	r.HTTPServer = httpserver.NewServer(httpserver.Dependencies{
		CacheService: r.CacheService,
		Market:       r.Market,
		Preferences:  r.Preferences,
		Wallet:       r.Wallet,
		Queries:      r.Queries,
		HealthChecks: checks,
	}, r.Config.Server, r.Logger)
	return nil
}

// Cleanup releases every resource that was initialized
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.Queries != nil {
		r.Queries.Close()
	}
	if r.L1Cache != nil {
		if err := r.L1Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 cache: %w", err))
		}
	}
	if r.KeyDBClient != nil {
		if err := r.KeyDBClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close KeyDB client: %w", err))
		}
	}
	if r.EthClient != nil {
		r.EthClient.Close()
	}
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}

	return errors.Join(errs...)
}
