package refserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/driftguard/driftguard/lib/timesource"
)

// handleTime serves the current reference time as the /time JSON document.
func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	now := s.now()
	payload := timesource.TimePayload{
		Time:      now.Format(time.RFC3339Nano),
		UnixMilli: now.UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&payload); err != nil {
		log.WithFields(map[string]interface{}{
			"at":     "(Server).handleTime",
			"reason": err.Error(),
		}).Error("Failed to write time response")
	}
}

// handleHealth reports liveness for load balancers and monitoring.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.WithError(err).Error("Failed to write health response")
	}
}
