package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-market-cache/internal/config"
	"go-market-cache/internal/models"
	"go-market-cache/internal/scheduler"
)

var (
	// ErrClosed is reported by queries issued after Close
	ErrClosed = errors.New("query client closed")
	// ErrReset is reported to readers whose entry was dropped by Reset while they waited
	ErrReset = errors.New("query cache reset")
)

// Client is a keyed stale-while-revalidate cache in front of fetch functions.
// At most one fetch per key is in flight; concurrent readers attach to it.
type Client struct {
	mu       sync.Mutex
	entries  map[string]*entry
	group    singleflight.Group
	defaults Options
	logger   *zap.Logger
	metrics  MetricsRecorder
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewClient creates a query client with defaults taken from cfg
func NewClient(cfg config.QueryConfig, logger *zap.Logger, recorder MetricsRecorder) *Client {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		entries:  make(map[string]*entry),
		defaults: defaultOptions(cfg),
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *Client) options(def Definition) Options {
	opts := c.defaults
	for _, opt := range def.Options {
		opt(&opts)
	}
	return opts
}

// Query reads a key through the cache. A fresh value is returned as is; a stale value is
// returned immediately while one background refetch runs; with no value the call waits for
// the shared fetch or for ctx.
func (c *Client) Query(ctx context.Context, def Definition) Result {
	opts := c.options(def)
	resource := def.Key.Resource

	if !opts.Enabled {
		c.metrics.RecordRead(resource, OutcomeDisabled)
		return Result{Key: def.Key, Status: models.QueryStatusIdle}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{Key: def.Key, Status: models.QueryStatusError, Err: ErrClosed}
	}

	e := c.entryLocked(def, opts)

	if e.hasData && !e.isStale(c.now()) {
		res := e.snapshot()
		c.mu.Unlock()
		c.metrics.RecordRead(resource, OutcomeFresh)
		return res
	}

	if e.hasData {
		_, n := c.startFetchLocked(e)
		res := e.snapshot()
		c.mu.Unlock()
		n.send()
		c.metrics.RecordRead(resource, OutcomeStale)
		return res
	}

	f, n := c.startFetchLocked(e)
	f.waiters++
	ch := c.group.DoChan(e.keyStr, f.run)
	c.mu.Unlock()
	n.send()
	c.metrics.RecordRead(resource, OutcomeMiss)

	select {
	case <-ch:
		c.mu.Lock()
		f.waiters--
		res := c.waiterResultLocked(e)
		c.mu.Unlock()
		return res
	case <-ctx.Done():
		c.mu.Lock()
		f.waiters--
		c.cancelIfUnobservedLocked(e, f)
		res := c.waiterResultLocked(e)
		c.mu.Unlock()
		if res.Err == nil {
			res.Err = ctx.Err()
		}
		return res
	}
}

// Subscribe registers listener for every state change of the key and fetches it when
// missing or stale. The listener is called once with the current state before Subscribe
// returns. While the key has subscribers it is refreshed every RefetchInterval.
func (c *Client) Subscribe(def Definition, listener Listener) *Subscription {
	opts := c.options(def)
	sub := &Subscription{client: c}

	c.mu.Lock()
	if !opts.Enabled || c.closed {
		c.mu.Unlock()
		listener(Result{Key: def.Key, Status: models.QueryStatusIdle})
		return sub
	}

	e := c.entryLocked(def, opts)
	id := e.nextID
	e.nextID++
	e.listeners[id] = listener
	sub.entry = e
	sub.id = id

	if e.timer == nil && opts.RefetchInterval > 0 {
		e.timer = scheduler.NewPeriodicTask(opts.RefetchInterval, func(context.Context) {
			c.refetch(e)
		})
		e.timer.Start()
	}

	var n notification
	if e.isStale(c.now()) {
		_, n = c.startFetchLocked(e)
	}
	if n.entry != nil {
		c.mu.Unlock()
		n.send()
		return sub
	}

	initial := e.initialNotificationLocked(listener)
	c.mu.Unlock()
	initial.send()
	return sub
}

// waiterResultLocked returns the state a waiting Query reports. An entry dropped by Reset or
// Close never completes, so its waiters get an error instead of a loading snapshot.
func (c *Client) waiterResultLocked(e *entry) Result {
	res := e.snapshot()
	if c.entries[e.keyStr] == e || res.Status != models.QueryStatusLoading {
		return res
	}
	res.Status = models.QueryStatusError
	res.IsFetching = false
	res.Err = ErrReset
	if c.closed {
		res.Err = ErrClosed
	}
	return res
}

// Peek returns the cached state of a key without fetching
func (c *Client) Peek(key models.ResourceKey) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Result{Key: key, Status: models.QueryStatusIdle}, false
	}
	return e.snapshot(), true
}

// Invalidate marks a key stale. Observed keys are refetched right away, others on next read.
func (c *Client) Invalidate(key models.ResourceKey) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.invalidated = true
	if len(e.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	_, n := c.startFetchLocked(e)
	c.mu.Unlock()
	n.send()
}

// Reset drops every entry, stopping refresh timers and cancelling in-flight fetches
func (c *Client) Reset() {
	c.mu.Lock()
	timers := c.resetLocked()
	c.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}

// Close resets the client and waits for running fetches to return
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	timers := c.resetLocked()
	c.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	c.cancel()
	c.wg.Wait()
}

func (c *Client) resetLocked() []*scheduler.PeriodicTask {
	var timers []*scheduler.PeriodicTask
	for key, e := range c.entries {
		if e.timer != nil {
			timers = append(timers, e.timer)
			e.timer = nil
		}
		if e.inflight != nil {
			e.inflight.cancel()
		}
		delete(c.entries, key)
	}
	return timers
}

// entryLocked returns the entry for def.Key, creating it if needed, and binds the latest
// fetch function and options to it.
func (c *Client) entryLocked(def Definition, opts Options) *entry {
	keyStr := def.Key.String()
	e, ok := c.entries[keyStr]
	if !ok {
		e = newEntry(def.Key)
		c.entries[keyStr] = e
	}
	if def.Fetch != nil {
		e.fetch = def.Fetch
	}
	e.opts = opts
	return e
}

// startFetchLocked starts a fetch for e unless one is already running, and returns the
// running fetch plus the notification to send once the lock is released.
func (c *Client) startFetchLocked(e *entry) (*inflight, notification) {
	if e.inflight != nil && e.inflight.ctx.Err() == nil {
		return e.inflight, notification{}
	}

	ctx, cancel := context.WithCancel(c.ctx)
	f := &inflight{ctx: ctx, cancel: cancel}
	retry := 0
	if !e.hasData {
		retry = e.opts.Retry
		e.status = models.QueryStatusLoading
	}
	fetch, opts := e.fetch, e.opts
	f.run = func() (interface{}, error) {
		start := time.Now()
		v, err := c.runFetch(ctx, e.key, fetch, retry, opts.RetryDelay)
		c.metrics.RecordFetch(e.key.Resource, err, time.Since(start))
		c.complete(e, f, v, err)
		return v, err
	}
	e.inflight = f

	c.wg.Add(1)
	c.group.Forget(e.keyStr)
	f.result = c.group.DoChan(e.keyStr, f.run)

	c.logger.Debug("Query fetch started",
		zap.String("key", e.keyStr),
		zap.Int("retry", retry))

	return f, e.notificationLocked()
}

func (c *Client) runFetch(ctx context.Context, key models.ResourceKey, fetch FetchFunc, retry int, delay time.Duration) (interface{}, error) {
	if fetch == nil {
		return nil, errors.New("query has no fetch function")
	}
	for attempt := 0; ; attempt++ {
		v, err := fetch(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= retry || ctx.Err() != nil {
			return nil, err
		}
		c.logger.Debug("Query fetch failed, retrying",
			zap.String("key", key.String()),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if sleepErr := scheduler.Sleep(ctx, delay); sleepErr != nil {
			return nil, err
		}
	}
}

// complete applies the outcome of fetch f to e and notifies subscribers
func (c *Client) complete(e *entry, f *inflight, v interface{}, err error) {
	c.mu.Lock()
	if f.done {
		c.mu.Unlock()
		return
	}
	f.done = true
	defer c.wg.Done()

	cancelled := f.ctx.Err() != nil
	f.cancel()

	if e.inflight != f || c.entries[e.keyStr] != e {
		c.mu.Unlock()
		return
	}
	e.inflight = nil

	switch {
	case err == nil:
		e.data = v
		e.hasData = true
		e.status = models.QueryStatusSuccess
		e.err = nil
		e.updatedAt = c.now()
		e.invalidated = false
		if e.timer != nil {
			e.timer.Reset()
		}
	case cancelled:
		if !e.hasData {
			e.status = models.QueryStatusIdle
		}
		c.logger.Debug("Query fetch cancelled", zap.String("key", e.keyStr))
	default:
		e.status = models.QueryStatusError
		e.err = err
		c.logger.Warn("Query fetch failed",
			zap.String("key", e.keyStr),
			zap.Bool("has_previous_data", e.hasData),
			zap.Error(err))
	}

	n := e.notificationLocked()
	c.mu.Unlock()
	n.send()
}

// refetch is the refresh timer callback
func (c *Client) refetch(e *entry) {
	c.mu.Lock()
	if c.closed || c.entries[e.keyStr] != e || len(e.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	_, n := c.startFetchLocked(e)
	c.mu.Unlock()
	n.send()
}

// cancelIfUnobservedLocked cancels f when neither a waiter nor a subscriber is left for it
func (c *Client) cancelIfUnobservedLocked(e *entry, f *inflight) {
	if e.inflight != f || f.waiters > 0 || len(e.listeners) > 0 {
		return
	}
	c.logger.Debug("Cancelling unobserved query fetch", zap.String("key", e.keyStr))
	f.cancel()
}

// Subscription is returned by Subscribe
type Subscription struct {
	client *Client
	entry  *entry
	id     uint64
	once   sync.Once
}

// Unsubscribe removes the listener. When it was the last one the refresh timer stops and
// an in-flight fetch nobody waits for is cancelled.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.entry == nil {
			return
		}
		c := s.client
		c.mu.Lock()
		e := s.entry
		delete(e.listeners, s.id)
		var timer *scheduler.PeriodicTask
		if len(e.listeners) == 0 {
			timer = e.timer
			e.timer = nil
			if e.inflight != nil {
				c.cancelIfUnobservedLocked(e, e.inflight)
			}
		}
		c.mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
	})
}
