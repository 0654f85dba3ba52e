// Package api exposes the simulation over HTTP: REST controls, a websocket
// round feed and prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"resilinet/internal/middleware"
	"resilinet/internal/sim"
)

// Server wires the simulation into HTTP handlers.
type Server struct {
	sim      *sim.Simulation
	hub      *hub
	log      *zap.Logger
	validate *validator.Validate
}

func NewServer(s *sim.Simulation, log *zap.Logger) *Server {
	return &Server{
		sim:      s,
		hub:      newHub(log),
		log:      log,
		validate: validator.New(),
	}
}

// Router assembles the full route table. Every simulation route is served
// both bare and under /api so older dashboard builds keep working.
func (s *Server) Router(corsOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Recovery(s.log))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(s.log))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	for _, root := range []*mux.Router{r, r.PathPrefix("/api").Subrouter()} {
		root.HandleFunc("/init", s.handleInit).Methods(http.MethodGet, http.MethodOptions)
		root.HandleFunc("/step", s.handleStep).Methods(http.MethodPost, http.MethodOptions)
		root.HandleFunc("/track/{nodeId}", s.handleTrack).Methods(http.MethodGet, http.MethodOptions)
		root.HandleFunc("/ccp/ledger", s.handleLedger).Methods(http.MethodGet, http.MethodOptions)
		root.HandleFunc("/ws", s.handleWS)
	}
	return r
}

// Step advances the simulation one round and fans the committed result out
// to every websocket client.
func (s *Server) Step(panicLevel float64) (*sim.RoundResult, error) {
	res, err := s.sim.Step(panicLevel)
	if err != nil {
		return nil, err
	}
	s.hub.broadcast(roundUpdate{
		Type:  "round_update",
		Round: res.Round,
		Graph: res.Graph,
		Stats: res.Stats,
	})
	return res, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("json encode failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
