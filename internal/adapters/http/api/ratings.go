// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RatingsHandler handles rating query requests.
type RatingsHandler struct {
	server *Server
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(server *Server) *RatingsHandler {
	return &RatingsHandler{server: server}
}

type ratingResponse struct {
	PlayerID      string     `json:"player_id"`
	Rating        ratingJSON `json:"rating"`
	PeriodsClosed int        `json:"periods_closed"`
}

// HandleGetRating handles GET /ratings/{player_id}?at=RFC3339 requests.
// Without the at parameter the rating is computed as of now.
func (h *RatingsHandler) HandleGetRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/ratings/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	playerID, err := uuid.Parse(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	handle, ok := h.server.lookup(playerID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_player", ErrUnknownPlayer)
		return
	}

	var at time.Time
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
	}

	if at.IsZero() {
		current, closed, err := h.server.deps.PlayerRating(handle)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, ratingResponse{
			PlayerID:      playerID.String(),
			Rating:        toRatingJSON(current),
			PeriodsClosed: closed,
		})
		return
	}

	current, closed, err := h.server.deps.PlayerRatingAt(handle, at)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{
		PlayerID:      playerID.String(),
		Rating:        toRatingJSON(current),
		PeriodsClosed: closed,
	})
}
