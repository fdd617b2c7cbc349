package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pitchpulse/pitchpulse/internal/adapters/feed"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
)

// handlePostEvent handles POST /events requests. The body is a single raw
// match record in the upstream feed format.
func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Join(ErrBadRequest, err))
		return
	}
	if !rec.IsMatchRecord() && rec.PlayerID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing playerId"))
		return
	}

	switch s.deps.Ingest(r.Context(), rec) {
	case feed.IngestDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case feed.IngestBoundary:
		writeJSON(w, http.StatusOK, ackResponse{Status: "boundary"})
	case feed.IngestBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
	}
}
