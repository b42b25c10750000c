package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

// currencyParam reads ?currency=, falling back to the stored preference
func (s *Server) currencyParam(r *http.Request) (models.Currency, error) {
	code := r.URL.Query().Get("currency")
	if code == "" {
		return s.deps.Preferences.Currency(), nil
	}
	return models.ParseCurrency(code)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	currency, err := s.currencyParam(r)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeQueryResult(w, s.deps.Market.Listings(r.Context(), currency))
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	s.writeQueryResult(w, s.deps.Market.Global(r.Context()))
}

func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	s.writeQueryResult(w, s.deps.Market.Coin(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeQueryResult(w, s.deps.Market.Search(r.Context(), r.URL.Query().Get("query")))
}

func (s *Server) handleWatchlistMarkets(w http.ResponseWriter, r *http.Request) {
	currency, err := s.currencyParam(r)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids := s.deps.Preferences.Watchlist()
	s.writeQueryResult(w, s.deps.Market.WatchlistListings(r.Context(), currency, ids))
}

// writeQueryResult answers 200 whenever the result carries data, even with a failed refetch.
// An error with nothing to show maps to the upstream failure.
func (s *Server) writeQueryResult(w http.ResponseWriter, res query.Result) {
	status := http.StatusOK
	if res.Err != nil && !res.HasData() {
		status = statusForError(res.Err)
	}
	s.writeJSON(w, status, newQueryResponse(res))
}
