package scheduler

import (
	"context"
	"sync"
	"time"
)

// PeriodicTask manages a background task that runs at regular intervals
type PeriodicTask struct {
	interval time.Duration
	task     func(ctx context.Context)
	cancel   context.CancelFunc
	reset    chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewPeriodicTask creates a new PeriodicTask instance
func NewPeriodicTask(interval time.Duration, task func(ctx context.Context)) *PeriodicTask {
	return &PeriodicTask{
		interval: interval,
		task:     task,
	}
}

// Start begins executing the task at the specified interval. The first run happens
// one interval after Start.
func (pt *PeriodicTask) Start() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.running || pt.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pt.cancel = cancel
	pt.reset = make(chan struct{}, 1)
	pt.running = true

	reset := pt.reset
	pt.wg.Add(1)
	go func() {
		defer pt.wg.Done()
		ticker := time.NewTicker(pt.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pt.task(ctx)
			case <-reset:
				ticker.Reset(pt.interval)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Reset restarts the interval countdown, e.g. after the work was done out of band
func (pt *PeriodicTask) Reset() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.running {
		return
	}
	select {
	case pt.reset <- struct{}{}:
	default:
	}
}

// Stop terminates the periodic task execution and waits for a running task to return.
// It must not be called from inside the task.
func (pt *PeriodicTask) Stop() {
	pt.mu.Lock()
	if !pt.running {
		pt.mu.Unlock()
		return
	}
	pt.cancel()
	pt.running = false
	pt.mu.Unlock()

	pt.wg.Wait()
}

// IsRunning returns true if the task is currently running
func (pt *PeriodicTask) IsRunning() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.running
}
