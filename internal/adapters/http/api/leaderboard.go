package api

import (
	"net/http"
	"strconv"
)

const defaultLeaderboardLimit = 10

// handleGetLeaderboard handles GET /leaderboard?limit=N requests.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := defaultLeaderboardLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		n = parsed
	}
	if n > s.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}

	entries, err := s.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
