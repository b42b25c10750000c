package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-market-cache/internal/metrics"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// latestResult holds the newest undelivered result. Listeners never block: a slow
// client skips intermediate states and receives the latest one.
type latestResult struct {
	mu      sync.Mutex
	pending *query.Result
	ready   chan struct{}
}

func newLatestResult() *latestResult {
	return &latestResult{ready: make(chan struct{}, 1)}
}

func (l *latestResult) put(res query.Result) {
	l.mu.Lock()
	l.pending = &res
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestResult) take() (query.Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		return query.Result{}, false
	}
	res := *l.pending
	l.pending = nil
	return res, true
}

// handleStream upgrades to a websocket and pushes every state change of one resource.
// For the search resource the client sends {"query": "..."} frames; terms are debounced
// before they are searched.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resource := q.Get("resource")
	params := map[string]string{
		"currency": q.Get("currency"),
		"id":       q.Get("id"),
		"query":    q.Get("query"),
	}
	if resource == models.ResourceMarketListing && params["currency"] == "" {
		params["currency"] = string(s.deps.Preferences.Currency())
	}

	def, err := s.deps.Market.Definition(resource, params)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	s.trackStream(conn, true)
	defer s.trackStream(conn, false)

	metrics.StreamOpened(resource)
	defer metrics.StreamClosed(resource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	latest := newLatestResult()
	var onQuery func(term string)

	if resource == models.ResourceSearch {
		debouncer := s.deps.Market.NewSearchDebouncer(ctx, func(_ string, res query.Result) {
			latest.put(res)
		})
		defer debouncer.Stop()
		onQuery = debouncer.Input
		if term := params["query"]; term != "" {
			debouncer.Input(term)
		}
	} else {
		sub := s.deps.Queries.Subscribe(def, latest.put)
		defer sub.Unsubscribe()
	}

	s.logger.Debug("stream opened", zap.String("resource", resource), zap.String("key", def.Key.String()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readStream(conn, onQuery)
	}()

	s.writeStream(ctx, conn, latest, done)
	s.logger.Debug("stream closed", zap.String("key", def.Key.String()))
}

// readStream consumes client frames until the connection fails or closes
func (s *Server) readStream(conn *websocket.Conn, onQuery func(term string)) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		if onQuery == nil {
			continue
		}

		var req StreamRequest
		if err := sonic.Unmarshal(message, &req); err != nil {
			s.logger.Debug("ignoring malformed stream frame", zap.Error(err))
			continue
		}
		onQuery(req.Query)
	}
}

// writeStream sends results and keepalive pings until the reader stops
func (s *Server) writeStream(ctx context.Context, conn *websocket.Conn, latest *latestResult, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-latest.ready:
			res, ok := latest.take()
			if !ok {
				continue
			}
			frame, err := sonic.Marshal(newQueryResponse(res))
			if err != nil {
				s.logger.Error("failed to encode stream frame", zap.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) trackStream(conn *websocket.Conn, open bool) {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	if open {
		s.streams[conn] = struct{}{}
		return
	}
	delete(s.streams, conn)
}
