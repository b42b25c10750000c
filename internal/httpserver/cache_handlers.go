package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-market-cache/internal/models"
)

// Proxy response headers
const (
	HeaderCacheStatus = "X-Cache-Status"
	HeaderCacheLevel  = "X-Cache-Level"
	HeaderCacheType   = "X-Cache-Type"
	HeaderCacheKey    = "X-Cache-Key"
)

// handleProxy forwards GET /api/<path>?<query> to the upstream API through the response cache
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	path := "/" + mux.Vars(r)["path"]

	resp, err := s.deps.CacheService.Fetch(r.Context(), path, r.URL.Query())
	if err != nil {
		status := statusForError(err)
		s.logger.Debug("proxy request failed",
			zap.String("path", path),
			zap.Int("status", status),
			zap.Error(err))
		s.writeError(w, err.Error(), status)
		return
	}

	if resp.Err != nil {
		s.logger.Debug("proxy served stale payload", zap.String("path", path), zap.Error(resp.Err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderCacheStatus, string(resp.Status))
	w.Header().Set(HeaderCacheType, string(resp.CacheType))
	w.Header().Set(HeaderCacheKey, resp.Key)
	if resp.CacheLevel != models.CacheLevelMiss {
		w.Header().Set(HeaderCacheLevel, string(resp.CacheLevel))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Data); err != nil {
		s.logger.Debug("failed to write proxy response", zap.Error(err))
	}
}

// handleInvalidate drops the cached payload of /api/<path>?<query> from every cache level
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	path := "/" + mux.Vars(r)["path"]

	if err := s.deps.CacheService.Invalidate(path, r.URL.Query()); err != nil {
		s.writeError(w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
