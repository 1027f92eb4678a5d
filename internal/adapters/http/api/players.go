// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/senet/internal/domain/rating"
)

// PlayersHandler handles player registration requests.
type PlayersHandler struct {
	server *Server
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(server *Server) *PlayersHandler {
	return &PlayersHandler{server: server}
}

// playerRequest mirrors the POST /players body. All three fields are
// optional together: an empty body registers the player at the configured
// start rating.
type playerRequest struct {
	Rating     *float64 `json:"rating"`
	Deviation  *float64 `json:"deviation"`
	Volatility *float64 `json:"volatility"`
}

type playerResponse struct {
	PlayerID      string     `json:"player_id"`
	Rating        ratingJSON `json:"rating"`
	PeriodsClosed int        `json:"periods_closed"`
}

// HandlePostPlayer handles POST /players requests.
func (h *PlayersHandler) HandlePostPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req playerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
	}

	start := h.server.deps.Settings().StartRating()
	value, deviation, volatility := start.Value(), start.Deviation(), start.Volatility()
	if req.Rating != nil {
		value = *req.Rating
	}
	if req.Deviation != nil {
		deviation = *req.Deviation
	}
	if req.Volatility != nil {
		volatility = *req.Volatility
	}

	initial, err := rating.New(value, deviation, volatility)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_rating", err)
		return
	}

	handle, closed, err := h.server.deps.RegisterPlayer(initial)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	id := h.server.assign(handle)

	writeJSON(w, http.StatusCreated, playerResponse{
		PlayerID:      id.String(),
		Rating:        toRatingJSON(initial),
		PeriodsClosed: closed,
	})
}

// isInvalid reports whether err is a construction/validation failure that
// should map to a 400.
func isInvalid(err error) bool {
	return errors.Is(err, rating.ErrInvalidRating) ||
		errors.Is(err, rating.ErrInvalidScore) ||
		errors.Is(err, rating.ErrInvalidSettings)
}
