package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if s.deps.Wallet == nil {
		s.writeError(w, "wallet support is disabled", http.StatusNotFound)
		return
	}

	info, err := s.deps.Wallet.Info(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, err.Error(), statusForError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}
