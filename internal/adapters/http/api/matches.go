// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/senet/internal/domain/rating"
)

// MatchesHandler handles match result requests.
type MatchesHandler struct {
	server *Server
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(server *Server) *MatchesHandler {
	return &MatchesHandler{server: server}
}

// matchRequest mirrors the POST /matches body. Outcome is from the player's
// perspective: "win", "draw", or "loss".
type matchRequest struct {
	PlayerID   string `json:"player_id"`
	OpponentID string `json:"opponent_id"`
	Outcome    string `json:"outcome"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.PlayerID) == "":
		return ErrBadRequest
	case strings.TrimSpace(m.OpponentID) == "":
		return ErrBadRequest
	case m.PlayerID == m.OpponentID:
		return ErrBadRequest
	case strings.TrimSpace(m.Outcome) == "":
		return ErrBadRequest
	}
	return nil
}

type matchResponse struct {
	Status        string `json:"status"`
	PeriodsClosed int    `json:"periods_closed"`
}

// HandlePostMatch handles POST /matches requests.
func (h *MatchesHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	opponentID, err := uuid.Parse(req.OpponentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	outcome, err := rating.ParseMatchResult(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_outcome", err)
		return
	}

	player, ok := h.server.lookup(playerID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_player", ErrUnknownPlayer)
		return
	}
	opponent, ok := h.server.lookup(opponentID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_player", ErrUnknownPlayer)
		return
	}

	closed, err := h.server.deps.RecordResult(player, opponent, outcome)
	if err != nil {
		if isInvalid(err) {
			writeError(w, http.StatusBadRequest, "invalid_score", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{Status: "recorded", PeriodsClosed: closed})
}
