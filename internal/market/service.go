package market

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

const (
	listingsPath = "/coins/markets"
	globalPath   = "/global"
	coinPathFmt  = "/coins/%s"
	searchPath   = "/search"
)

// Service maps market resources onto query definitions backed by the transport
type Service struct {
	transport interfaces.Transport
	queries   *query.Client
	cfg       config.MarketConfig
	logger    *zap.Logger
}

// NewService creates the market accessors
func NewService(transport interfaces.Transport, queries *query.Client, cfg config.MarketConfig, logger *zap.Logger) *Service {
	return &Service{
		transport: transport,
		queries:   queries,
		cfg:       cfg,
		logger:    logger,
	}
}

// ListingsKey is the cache key of the market listing in currency
func ListingsKey(currency models.Currency) models.ResourceKey {
	return models.NewResourceKey(models.ResourceMarketListing, "vs_currency", string(currency))
}

// GlobalKey is the cache key of the global stats
func GlobalKey() models.ResourceKey {
	return models.NewResourceKey(models.ResourceGlobalStats)
}

// CoinKey is the cache key of a coin detail
func CoinKey(id string) models.ResourceKey {
	return models.NewResourceKey(models.ResourceCoinDetail, "id", id)
}

// SearchKey is the cache key of a search term
func SearchKey(term string) models.ResourceKey {
	return models.NewResourceKey(models.ResourceSearch, "query", term)
}

// ListingsDefinition describes the top coins by market cap, quoted in currency
func (s *Service) ListingsDefinition(currency models.Currency) query.Definition {
	params := url.Values{
		"vs_currency":             {string(currency)},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(s.cfg.PageSize)},
		"page":                    {"1"},
		"sparkline":               {"true"},
		"price_change_percentage": {"1h,24h,7d"},
	}
	return query.Definition{
		Key: ListingsKey(currency),
		Fetch: func(ctx context.Context) (interface{}, error) {
			var listings []models.CoinListing
			if err := s.get(ctx, listingsPath, params, models.ResourceMarketListing, &listings); err != nil {
				return nil, err
			}
			return listings, nil
		},
		Options: []query.Option{query.WithRetry(s.cfg.ListingRetry)},
	}
}

// GlobalDefinition describes the aggregate market stats
func (s *Service) GlobalDefinition() query.Definition {
	return query.Definition{
		Key: GlobalKey(),
		Fetch: func(ctx context.Context) (interface{}, error) {
			var stats models.GlobalStats
			if err := s.get(ctx, globalPath, nil, models.ResourceGlobalStats, &stats); err != nil {
				return nil, err
			}
			return stats, nil
		},
		Options: []query.Option{query.WithRetry(s.cfg.GlobalRetry)},
	}
}

// CoinDefinition describes the detail of one coin; it stays disabled while id is empty
func (s *Service) CoinDefinition(id string) query.Definition {
	id = strings.TrimSpace(id)
	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"true"},
		"community_data": {"false"},
		"developer_data": {"false"},
		"sparkline":      {"true"},
	}
	return query.Definition{
		Key: CoinKey(id),
		Fetch: func(ctx context.Context) (interface{}, error) {
			var detail models.CoinDetail
			path := fmt.Sprintf(coinPathFmt, url.PathEscape(id))
			if err := s.get(ctx, path, params, models.ResourceCoinDetail, &detail); err != nil {
				return nil, err
			}
			return detail, nil
		},
		Options: []query.Option{query.WithEnabled(id != "")},
	}
}

// SearchDefinition describes the top matches of term; it stays disabled for short terms
func (s *Service) SearchDefinition(term string) query.Definition {
	return query.Definition{
		Key: SearchKey(term),
		Fetch: func(ctx context.Context) (interface{}, error) {
			var resp models.SearchResponse
			if err := s.get(ctx, searchPath, url.Values{"query": {term}}, models.ResourceSearch, &resp); err != nil {
				return nil, err
			}
			coins := resp.Coins
			if len(coins) > s.cfg.SearchLimit {
				coins = coins[:s.cfg.SearchLimit]
			}
			if coins == nil {
				coins = []models.SearchResult{}
			}
			return coins, nil
		},
		Options: []query.Option{query.WithEnabled(s.SearchEnabled(term))},
	}
}

// SearchEnabled reports whether term is long enough to be searched
func (s *Service) SearchEnabled(term string) bool {
	return utf8.RuneCountInString(term) >= s.cfg.SearchMinLength
}

// Definition resolves a resource name and its parameters, as used by the live stream
func (s *Service) Definition(resource string, params map[string]string) (query.Definition, error) {
	switch resource {
	case models.ResourceMarketListing:
		currency, err := models.ParseCurrency(params["currency"])
		if err != nil {
			return query.Definition{}, err
		}
		return s.ListingsDefinition(currency), nil
	case models.ResourceGlobalStats:
		return s.GlobalDefinition(), nil
	case models.ResourceCoinDetail:
		return s.CoinDefinition(params["id"]), nil
	case models.ResourceSearch:
		return s.SearchDefinition(params["query"]), nil
	}
	return query.Definition{}, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
}

// Listings reads the market listing
func (s *Service) Listings(ctx context.Context, currency models.Currency) query.Result {
	return s.queries.Query(ctx, s.ListingsDefinition(currency))
}

// Global reads the global stats
func (s *Service) Global(ctx context.Context) query.Result {
	return s.queries.Query(ctx, s.GlobalDefinition())
}

// Coin reads a coin detail
func (s *Service) Coin(ctx context.Context, id string) query.Result {
	return s.queries.Query(ctx, s.CoinDefinition(id))
}

// Search reads the matches of term
func (s *Service) Search(ctx context.Context, term string) query.Result {
	return s.queries.Query(ctx, s.SearchDefinition(term))
}

// WatchlistListings reads the market listing restricted to ids, keeping listing order
func (s *Service) WatchlistListings(ctx context.Context, currency models.Currency, ids []string) query.Result {
	res := s.Listings(ctx, currency)
	listings, ok := query.Data[[]models.CoinListing](res)
	if !ok {
		return res
	}
	res.Data = FilterWatchlist(listings, ids)
	return res
}

// FilterWatchlist keeps the listings whose id is in ids
func FilterWatchlist(listings []models.CoinListing, ids []string) []models.CoinListing {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	filtered := make([]models.CoinListing, 0, len(ids))
	for _, l := range listings {
		if _, ok := wanted[l.ID]; ok {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func (s *Service) get(ctx context.Context, path string, params url.Values, resource string, out interface{}) error {
	body, err := s.transport.Get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		s.logger.Warn("Failed to decode market payload",
			zap.String("resource", resource),
			zap.String("path", path),
			zap.Error(err))
		return &DecodeError{Resource: resource, Err: err}
	}
	return nil
}
