package wallet

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/format"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

const (
	nativeDecimals = 18
	balancePlaces  = 4
)

var (
	// ErrInvalidAddress is returned for strings that are not 20-byte hex addresses
	ErrInvalidAddress = errors.New("invalid wallet address")
	// ErrDisabled is returned when no Ethereum node is configured
	ErrDisabled = errors.New("wallet support is disabled")
)

// Service answers the wallet panel: chain, display name and native balance of an address
type Service struct {
	client  interfaces.EthClient
	ens     interfaces.ENSResolver
	queries *query.Client
	symbol  string
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	chainID *big.Int
}

// NewService creates the wallet service. client may be nil when the wallet is disabled,
// ens may be nil to skip name lookups.
func NewService(client interfaces.EthClient, ens interfaces.ENSResolver, queries *query.Client, cfg config.WalletConfig, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		ens:     ens,
		queries: queries,
		symbol:  cfg.Symbol,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// ParseAddress validates a hex address
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(address), nil
}

// BalanceKey is the cache key of the native balance of address
func BalanceKey(address common.Address) models.ResourceKey {
	return models.NewResourceKey(models.ResourceWalletBalance, "address", address.Hex())
}

// BalanceDefinition describes the native balance of address at the latest block
func (s *Service) BalanceDefinition(address common.Address) query.Definition {
	return query.Definition{
		Key: BalanceKey(address),
		Fetch: func(ctx context.Context) (interface{}, error) {
			ctx, cancel := s.withTimeout(ctx)
			defer cancel()
			return s.client.BalanceAt(ctx, address, nil)
		},
	}
}

// Info returns the panel data of address
func (s *Service) Info(ctx context.Context, address string) (models.WalletInfo, error) {
	if s.client == nil {
		return models.WalletInfo{}, ErrDisabled
	}
	addr, err := ParseAddress(address)
	if err != nil {
		return models.WalletInfo{}, err
	}

	chainID, err := s.chain(ctx)
	if err != nil {
		return models.WalletInfo{}, err
	}

	res := s.queries.Query(ctx, s.BalanceDefinition(addr))
	balance, ok := query.Data[*big.Int](res)
	if !ok {
		if res.Err != nil {
			return models.WalletInfo{}, res.Err
		}
		balance = new(big.Int)
	}

	info := models.WalletInfo{
		Address:     addr.Hex(),
		DisplayName: format.Address(addr.Hex()),
		ChainID:     chainID.Int64(),
		ChainName:   ChainName(chainID.Int64()),
		Balance:     format.TokenAmount(balance, nativeDecimals, balancePlaces),
		Symbol:      s.symbol,
	}

	if name := s.lookupName(ctx, addr); name != "" {
		info.ENSName = name
		info.DisplayName = name
	}
	return info, nil
}

func (s *Service) chain(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainID != nil {
		return s.chainID, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	id, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	s.chainID = id
	s.logger.Info("Connected to Ethereum node",
		zap.Int64("chain_id", id.Int64()),
		zap.String("chain", ChainName(id.Int64())))
	return id, nil
}

func (s *Service) lookupName(ctx context.Context, addr common.Address) string {
	if s.ens == nil {
		return ""
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	name, err := s.ens.LookupAddress(ctx, addr)
	if err != nil {
		s.logger.Debug("ENS lookup failed", zap.String("address", addr.Hex()), zap.Error(err))
		return ""
	}
	return name
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
