package market

import (
	"context"
	"sync"
	"time"

	"go-market-cache/internal/query"
)

// SearchDebouncer promotes a search term only after it stopped changing for the
// configured delay, so a burst of keystrokes results in one search.
type SearchDebouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	term     string
	onStable func(term string)
	stopped  bool
}

// NewSearchDebouncer calls onStable with each term that stayed unchanged for delay
func NewSearchDebouncer(delay time.Duration, onStable func(term string)) *SearchDebouncer {
	return &SearchDebouncer{
		delay:    delay,
		onStable: onStable,
	}
}

// Input records the latest value of the search box
func (d *SearchDebouncer) Input(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.term = term
		d.mu.Unlock()
		d.onStable(term)
	})
}

// Term returns the last promoted term
func (d *SearchDebouncer) Term() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.term
}

// Stop discards pending input
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// NewSearchDebouncer wires a debouncer to the search accessor. Terms too short to search
// are reported as an idle result without touching the API.
func (s *Service) NewSearchDebouncer(ctx context.Context, onResult func(term string, res query.Result)) *SearchDebouncer {
	return NewSearchDebouncer(s.cfg.SearchDebounce, func(term string) {
		onResult(term, s.Search(ctx, term))
	})
}
