package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"go-market-cache/internal/metrics"
	"go-market-cache/internal/query"
)

// QueryMetrics adapts the query layer observations to the prometheus metrics package
type QueryMetrics struct{}

var _ query.MetricsRecorder = QueryMetrics{}

// RecordRead counts a read by how it was served
func (QueryMetrics) RecordRead(resource string, outcome query.Outcome) {
	metrics.RecordQueryRead(resource, string(outcome))
}

// RecordFetch records a completed fetch with its error category
func (QueryMetrics) RecordFetch(resource string, err error, duration time.Duration) {
	metrics.RecordQueryFetch(resource, metrics.CategorizeError(err), duration)
}

// ethHealth reports the Ethereum node reachable when it answers eth_chainId
type ethHealth struct {
	client *ethclient.Client
}

func (e ethHealth) Ping(ctx context.Context) error {
	_, err := e.client.ChainID(ctx)
	return err
}
