// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/senet/internal/adapters/repository"
	"github.com/okian/senet/internal/domain/rating"
)

// Ratings bundles the engine operations the handlers need. Using an
// interface keeps the handler layer loosely coupled to the engine package.
type Ratings interface {
	RegisterPlayer(r rating.Rating) (repository.Handle, int, error)
	RecordResult(a, b repository.Handle, score rating.Score) (int, error)
	PlayerRating(handle repository.Handle) (rating.Rating, int, error)
	PlayerRatingAt(handle repository.Handle, at time.Time) (rating.Rating, int, error)
	Settings() rating.Settings
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the rating API.
//
// Engine handles are process-internal; the server maps them to UUIDs so the
// wire never carries a raw index.
type Server struct {
	deps Ratings

	mu      sync.RWMutex
	players map[uuid.UUID]repository.Handle

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	matchesHandler *MatchesHandler
	ratingsHandler *RatingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Ratings, statsProvider StatsProvider) *Server {
	s := &Server{
		deps:    deps,
		players: make(map[uuid.UUID]repository.Handle),
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.playersHandler = NewPlayersHandler(s)
	s.matchesHandler = NewMatchesHandler(s)
	s.ratingsHandler = NewRatingsHandler(s)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePostPlayer, "players"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatch, "matches"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingsHandler.HandleGetRating, "ratings"))
}

// lookup resolves an external player ID to an engine handle.
func (s *Server) lookup(id uuid.UUID) (repository.Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.players[id]
	return h, ok
}

// assign stores the handle under a freshly generated external ID.
func (s *Server) assign(h repository.Handle) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.players[id] = h
	s.mu.Unlock()
	return id
}

// ratingJSON is the wire shape of a public-scale rating.
type ratingJSON struct {
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

func toRatingJSON(r rating.Rating) ratingJSON {
	return ratingJSON{Rating: r.Value(), Deviation: r.Deviation(), Volatility: r.Volatility()}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
