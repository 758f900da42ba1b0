// internal/handlers/http.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/dhihaei/gameserver/internal/broadcast"
	"github.com/dhihaei/gameserver/internal/coordinator"
	"github.com/dhihaei/gameserver/internal/middleware"
	"github.com/dhihaei/gameserver/internal/sponsor"
)

// NewRouter builds the full HTTP surface: health, websocket endpoint, room
// diagnostics, and the sponsor collaborator API.
func NewRouter(logger *logrus.Logger, coord *coordinator.Coordinator, br *broadcast.Router, sponsors *sponsor.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))

	r.Get("/healthz", Healthz)
	r.Get("/ws", WSHandler(logger, coord, br))
	r.Get("/api/rooms", ListRooms(coord))

	if sponsors != nil {
		r.Get("/api/sponsor/{slot}", GetSponsor(sponsors))
		r.Post("/api/sponsor/{slot}/impression", RecordImpression(sponsors))
		r.Post("/api/sponsor/{slot}/click", RecordClick(sponsors))
	}
	return r
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListRooms returns read-only summaries of the active rooms.
func ListRooms(coord *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, coord.Rooms())
	}
}

// GetSponsor returns the active sponsor configuration for a slot. Slots with
// no active sponsor answer enabled:false rather than 404, so clients need no
// special casing.
func GetSponsor(s *sponsor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := chi.URLParam(r, "slot")
		sp, ok := s.ActiveSponsor(slot)
		if !ok {
			writeJSON(w, sponsor.Sponsor{Enabled: false})
			return
		}
		writeJSON(w, sp)
	}
}

// RecordImpression bumps a slot's impression counter.
func RecordImpression(s *sponsor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.RecordImpression(chi.URLParam(r, "slot"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// RecordClick bumps a slot's click counter.
func RecordClick(s *sponsor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.RecordClick(chi.URLParam(r, "slot"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
