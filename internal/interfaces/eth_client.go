package interfaces

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -package=mock -source=eth_client.go -destination=mock/eth_client.go

// EthClient is the subset of the go-ethereum client used by the wallet panel
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// ENSResolver resolves the reverse ENS name of an address
type ENSResolver interface {
	LookupAddress(ctx context.Context, address common.Address) (string, error)
}
