package api

import (
	"errors"
	"net/http"

	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
	"github.com/pitchpulse/pitchpulse/internal/domain/formula"
)

type winProbSide struct {
	PlayerKey string  `json:"playerKey"`
	Name      string  `json:"name,omitempty"`
	Rating    float64 `json:"rating"`
	Chance    float64 `json:"chance"`
}

type winProbResponse struct {
	A winProbSide `json:"a"`
	B winProbSide `json:"b"`
}

// handleGetWinProb handles GET /winprob?a=KEY&b=KEY requests and returns
// the head-to-head winning chance for the two players' current ratings.
func (s *Server) handleGetWinProb(w http.ResponseWriter, r *http.Request) {
	keyA := r.URL.Query().Get("a")
	keyB := r.URL.Query().Get("b")
	if keyA == "" || keyB == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing a or b player key"))
		return
	}

	snapA, err := s.deps.PlayerSnapshot(r.Context(), keyA)
	if err != nil {
		writePlayerError(w, err)
		return
	}
	snapB, err := s.deps.PlayerSnapshot(r.Context(), keyB)
	if err != nil {
		writePlayerError(w, err)
		return
	}

	chanceA, chanceB := formula.WinningChance(snapA.Rating, snapB.Rating)
	writeJSON(w, http.StatusOK, winProbResponse{
		A: winProbSide{PlayerKey: snapA.Key, Name: snapA.Profile.Name, Rating: snapA.Rating, Chance: chanceA},
		B: winProbSide{PlayerKey: snapB.Key, Name: snapB.Profile.Name, Rating: snapB.Rating, Chance: chanceB},
	})
}

func writePlayerError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
