package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"go-market-cache/internal/models"
	"go-market-cache/internal/scheduler"
)

// entry holds the cached state of one key. All fields are guarded by Client.mu.
type entry struct {
	key    models.ResourceKey
	keyStr string
	fetch  FetchFunc
	opts   Options

	data        interface{}
	hasData     bool
	status      models.QueryStatus
	err         error
	updatedAt   time.Time
	invalidated bool

	inflight  *inflight
	listeners map[uint64]Listener
	nextID    uint64
	timer     *scheduler.PeriodicTask
	version   uint64

	// notifyMu serialises listener delivery; delivered is guarded by it
	notifyMu  sync.Mutex
	delivered uint64
}

// inflight is the single running fetch of an entry
type inflight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	result  <-chan singleflight.Result
	run     func() (interface{}, error)
	waiters int
	done    bool
}

func newEntry(key models.ResourceKey) *entry {
	return &entry{
		key:       key,
		keyStr:    key.String(),
		status:    models.QueryStatusIdle,
		listeners: make(map[uint64]Listener),
	}
}

func (e *entry) isStale(now time.Time) bool {
	if !e.hasData || e.invalidated {
		return true
	}
	return now.Sub(e.updatedAt) >= e.opts.StaleTime
}

func (e *entry) snapshot() Result {
	return Result{
		Key:        e.key,
		Data:       e.data,
		Status:     e.status,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
		IsFetching: e.inflight != nil,
	}
}

func (e *entry) listenerList() []Listener {
	if len(e.listeners) == 0 {
		return nil
	}
	list := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		list = append(list, l)
	}
	return list
}

// notificationLocked captures listeners and state so they can be called after unlocking
func (e *entry) notificationLocked() notification {
	e.version++
	return notification{
		entry:     e,
		version:   e.version,
		listeners: e.listenerList(),
		result:    e.snapshot(),
	}
}

// initialNotificationLocked captures the current state for a listener that just subscribed.
// It carries the current version, so a newer state delivered first makes it a no-op.
func (e *entry) initialNotificationLocked(listener Listener) notification {
	return notification{
		entry:     e,
		version:   e.version,
		listeners: []Listener{listener},
		result:    e.snapshot(),
		initial:   true,
	}
}

type notification struct {
	entry     *entry
	version   uint64
	listeners []Listener
	result    Result
	// initial notifications go to one new listener and may repeat an already delivered version
	initial bool
}

// send delivers the notification unless a newer state was already delivered
func (n notification) send() {
	if n.entry == nil || len(n.listeners) == 0 {
		return
	}
	n.entry.notifyMu.Lock()
	defer n.entry.notifyMu.Unlock()

	switch {
	case n.initial:
		if n.version < n.entry.delivered {
			return
		}
	case n.version <= n.entry.delivered:
		return
	default:
		n.entry.delivered = n.version
	}
	for _, l := range n.listeners {
		l(n.result)
	}
}
