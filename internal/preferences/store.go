package preferences

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
)

// Storage keys, shared with existing dashboard installs
const (
	CurrencyKey  = "coinlens-currency"
	WatchlistKey = "coinlens-watchlist"
)

var (
	// ErrUnsupportedCurrency is returned when writing a currency outside the supported set
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrEmptyCoinID is returned when toggling an empty coin id
	ErrEmptyCoinID = errors.New("coin id is empty")
)

// ParseError describes a stored value that could not be read back. It is logged and the
// preference falls back to its default.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("preference %s: cannot parse %q: %v", e.Key, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store persists the selected currency and the watchlist
type Store struct {
	mu      sync.Mutex
	backend interfaces.PreferenceBackend
	logger  *zap.Logger
}

// NewStore creates a preference store on top of backend
func NewStore(backend interfaces.PreferenceBackend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Currency returns the selected currency, or the default when nothing valid is stored
func (s *Store) Currency() models.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencyLocked()
}

func (s *Store) currencyLocked() models.Currency {
	raw, ok, err := s.backend.Get(CurrencyKey)
	if err != nil {
		s.logger.Warn("Failed to read currency preference", zap.Error(err))
		return models.DefaultCurrency
	}
	if !ok {
		return models.DefaultCurrency
	}

	currency, err := models.ParseCurrency(raw)
	if err != nil {
		s.logger.Warn("Ignoring stored currency", zap.Error(&ParseError{Key: CurrencyKey, Value: raw, Err: err}))
		return models.DefaultCurrency
	}
	return currency
}

// SetCurrency validates and stores the selected currency
func (s *Store) SetCurrency(code string) (models.Currency, error) {
	currency, err := models.ParseCurrency(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(CurrencyKey, string(currency)); err != nil {
		return "", fmt.Errorf("failed to store currency: %w", err)
	}
	s.logger.Debug("Currency preference updated", zap.String("currency", string(currency)))
	return currency, nil
}

// Watchlist returns the watched coin ids in insertion order
func (s *Store) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlistLocked()
}

func (s *Store) watchlistLocked() []string {
	raw, ok, err := s.backend.Get(WatchlistKey)
	if err != nil {
		s.logger.Warn("Failed to read watchlist preference", zap.Error(err))
		return []string{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}

	var ids []string
	if err := sonic.UnmarshalString(raw, &ids); err != nil {
		s.logger.Warn("Ignoring stored watchlist", zap.Error(&ParseError{Key: WatchlistKey, Value: raw, Err: err}))
		return []string{}
	}
	return dedupe(ids)
}

// dedupe drops repeated ids keeping the first occurrence
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IsWatchlisted reports whether id is on the watchlist
func (s *Store) IsWatchlisted(id string) bool {
	for _, w := range s.Watchlist() {
		if w == id {
			return true
		}
	}
	return false
}

// ToggleWatchlist removes id when present and appends it otherwise, returning the new list
func (s *Store) ToggleWatchlist(id string) ([]string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyCoinID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.watchlistLocked()
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, w := range current {
		if w == id {
			removed = true
			continue
		}
		next = append(next, w)
	}
	if !removed {
		next = append(next, id)
	}

	if err := s.storeWatchlistLocked(next); err != nil {
		return nil, err
	}
	s.logger.Debug("Watchlist toggled",
		zap.String("coin_id", id),
		zap.Bool("added", !removed),
		zap.Int("size", len(next)))
	return next, nil
}

// ClearWatchlist empties the watchlist
func (s *Store) ClearWatchlist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(WatchlistKey); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	return nil
}

func (s *Store) storeWatchlistLocked(ids []string) error {
	encoded, err := sonic.MarshalString(ids)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}
	if err := s.backend.Set(WatchlistKey, encoded); err != nil {
		return fmt.Errorf("failed to store watchlist: %w", err)
	}
	return nil
}
