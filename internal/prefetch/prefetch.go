// Package prefetch keeps the market listings warm on a cron schedule so that
// dashboard reads are served from fresh cache entries.
package prefetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

// Warmer reads the resources to keep warm
type Warmer interface {
	Listings(ctx context.Context, currency models.Currency) query.Result
	Global(ctx context.Context) query.Result
}

// Prefetcher runs the warm-up job
type Prefetcher struct {
	cron       *cron.Cron
	warmer     Warmer
	currencies []models.Currency
	timeout    time.Duration
	logger     *zap.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New validates the schedule and currencies and registers the job. Nothing runs until Start.
func New(cfg config.PrefetchConfig, warmer Warmer, timeout time.Duration, logger *zap.Logger) (*Prefetcher, error) {
	currencies := make([]models.Currency, 0, len(cfg.Currencies))
	for _, code := range cfg.Currencies {
		currency, err := models.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("prefetch currencies: %w", err)
		}
		currencies = append(currencies, currency)
	}

	cronLog := &cronLogger{logger: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Prefetcher{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		), cron.WithLogger(cronLog)),
		warmer:     warmer,
		currencies: currencies,
		timeout:    timeout,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := p.cron.AddFunc(cfg.Schedule, p.runJob); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid prefetch schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

// Start runs the job once in the background and then on schedule
func (p *Prefetcher) Start() {
	p.logger.Info("Starting prefetcher", zap.Int("currencies", len(p.currencies)))
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runJob()
	}()
	p.cron.Start()
}

// Stop cancels the running job and waits for it to return or for ctx to expire
func (p *Prefetcher) Stop(ctx context.Context) error {
	p.cancel()
	stopped := p.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Prefetcher) runJob() {
	start := time.Now()
	if err := p.Run(p.ctx); err != nil {
		p.logger.Warn("Prefetch finished with errors", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	p.logger.Debug("Prefetch finished", zap.Duration("duration", time.Since(start)))
}

// Run warms the global stats and the listing of every configured currency
func (p *Prefetcher) Run(ctx context.Context) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var errs []error
	if res := p.warmer.Global(ctx); res.Err != nil {
		errs = append(errs, fmt.Errorf("global stats: %w", res.Err))
	}
	for _, currency := range p.currencies {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if res := p.warmer.Listings(ctx, currency); res.Err != nil {
			errs = append(errs, fmt.Errorf("listings %s: %w", currency, res.Err))
		}
	}
	return errors.Join(errs...)
}

// cronLogger routes cron's own logging to zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
