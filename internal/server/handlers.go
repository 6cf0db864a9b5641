package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/bot"
	"github.com/woozymasta/dstone/internal/models"
	"github.com/woozymasta/dstone/internal/storage"
	"github.com/woozymasta/dstone/internal/vars"
)

// handleCommand answers one chat message. Messages that are not commands, and
// commands with nothing to say, get 204 so the chat framework sends nothing.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug().
			Err(err).
			Str("ip", GetRealIP(r, s.trustProxy)).
			Msg("Invalid command payload")

		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	reply, ok := s.bot.Handle(r.Context(), bot.Session{
		UserID:    req.UserID,
		Text:      req.Text,
		Authority: s.bot.AuthorityOf(req.UserID),
	})
	// an empty reply would post a blank chat message
	if !ok || reply == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondText(w, reply)
}

// handleHealth reports liveness, build info and the snapshot size.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.storage.CountSimpleInfo(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count rooms")
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "build": vars.Info()})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": rooms, "build": vars.Info()})
}

// handleRooms returns snapshot rows as JSON. Query parameters named after
// columns filter by substring, limit caps the result.
// Query params: ?name=abc&season=autumn&limit=20
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	filter := storage.Filter{}
	limit := 0

	for key, values := range r.URL.Query() {
		if key == "limit" {
			n, err := strconv.Atoi(values[0])
			if err != nil || n < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
			continue
		}
		filter[key] = values[0]
	}

	rows, err := s.storage.QuerySimpleInfo(r.Context(), filter, limit)
	if errors.Is(err, storage.ErrUnknownColumn) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to query rooms")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	if rows == nil {
		rows = []models.SimpleInfo{}
	}

	respondJSON(w, http.StatusOK, rows)
}

// handleRoomDetail returns the live detail report of a room as text.
// Query params: ?id=KU_xxxx
func (s *Server) handleRoomDetail(w http.ResponseWriter, r *http.Request) {
	respondText(w, s.bot.Detail(r.Context(), r.URL.Query().Get("id")))
}

// handleUpdateRoom overwrites columns of a stored room from a JSON object.
// Query params: ?id=KU_xxxx
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var update storage.Filter
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if _, ok := update["rowId"]; ok {
		http.Error(w, "rowId is immutable", http.StatusBadRequest)
		return
	}

	n, err := s.storage.UpdateSimpleInfo(r.Context(), storage.Filter{"rowId": id}, update)
	if errors.Is(err, storage.ErrUnknownColumn) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("room", id).Msg("Failed to update room")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.NotFound(w, r)
		return
	}

	log.Info().Str("room", id).Int("fields", len(update)).Msg("Room updated manually")
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Room updated"})
}

// handleDeleteRoom removes a stored room.
// Query params: ?id=KU_xxxx
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	n, err := s.storage.RemoveSimpleInfo(r.Context(), storage.Filter{"rowId": id})
	if err != nil {
		log.Error().Err(err).Str("room", id).Msg("Failed to delete room")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.NotFound(w, r)
		return
	}

	log.Info().Str("room", id).Msg("Room deleted manually")
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Room deleted"})
}

// handleRefresh runs one lobby poll synchronously.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := s.syncer.Sync(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Manual refresh failed")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": n})
}

func respondText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, body)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
