package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
)

// handleGetPlayer handles GET /players/{playerID} requests and returns the
// committed snapshot for one player.
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "playerID")
	if key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing playerID"))
		return
	}

	snap, err := s.deps.PlayerSnapshot(r.Context(), key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
