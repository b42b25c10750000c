package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-market-cache/internal/models"
)

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, CurrencyResponse{
		Currency:  s.deps.Preferences.Currency(),
		Supported: models.SupportedCurrencies,
	})
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req CurrencyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	currency, err := s.deps.Preferences.SetCurrency(req.Currency)
	if err != nil {
		s.writeError(w, err.Error(), statusForError(err))
		return
	}
	s.logger.Info("Currency changed", zap.String("currency", string(currency)))

	s.writeJSON(w, http.StatusOK, CurrencyResponse{
		Currency:  currency,
		Supported: models.SupportedCurrencies,
	})
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, WatchlistResponse{IDs: s.deps.Preferences.Watchlist()})
}

func (s *Server) handleToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ids, err := s.deps.Preferences.ToggleWatchlist(id)
	if err != nil {
		s.writeError(w, err.Error(), statusForError(err))
		return
	}

	watchlisted := false
	for _, watched := range ids {
		if watched == id {
			watchlisted = true
			break
		}
	}
	s.writeJSON(w, http.StatusOK, WatchlistResponse{IDs: ids, Watchlisted: &watchlisted})
}

func (s *Server) handleClearWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Preferences.ClearWatchlist(); err != nil {
		s.writeError(w, err.Error(), statusForError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, WatchlistResponse{IDs: []string{}})
}
