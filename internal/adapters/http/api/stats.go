package api

import "net/http"

// handleStats handles GET /stats requests with service runtime statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Stats(r.Context()))
}
