package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"resilinet/internal/model"
	"resilinet/internal/sim"
)

const defaultPanicLevel = 0.2

// StepRequest is the body of POST /step. A missing body or field falls
// back to the default panic level.
type StepRequest struct {
	PanicLevel *float64 `json:"panic_level" validate:"omitempty,gte=0,lte=1"`
}

type initResponse struct {
	Graph model.GraphSnapshot `json:"graph"`
	Logs  []string            `json:"logs"`
	Stats model.RoundStats    `json:"stats"`
}

type stepResponse struct {
	Graph model.GraphSnapshot `json:"graph"`
	Logs  []string            `json:"logs"`
	Stats model.RoundStats    `json:"stats"`
	Round int                 `json:"round"`
}

type roundUpdate struct {
	Type  string              `json:"type"`
	Round int                 `json:"round"`
	Graph model.GraphSnapshot `json:"graph"`
	Stats model.RoundStats    `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	res, err := s.sim.Reset()
	if err != nil {
		s.log.Error("init failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, initResponse{
		Graph: res.Graph,
		Logs:  nonNil(res.Logs),
		Stats: res.Stats,
	})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req StepRequest

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "panic_level must be between 0 and 1")
		return
	}

	level := defaultPanicLevel
	if req.PanicLevel != nil {
		level = *req.PanicLevel
	}

	res, err := s.Step(level)
	switch {
	case errors.Is(err, sim.ErrNotInitialized):
		s.respondError(w, http.StatusBadRequest, "Not initialized")
		return
	case errors.Is(err, sim.ErrHalted):
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":          "HALTED",
			"circuit_broken": true,
		})
		return
	case err != nil:
		s.log.Error("step failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, stepResponse{
		Graph: res.Graph,
		Logs:  nonNil(res.Logs),
		Stats: res.Stats,
		Round: res.Round,
	})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["nodeId"]
	entries, ok := s.sim.Track(id)
	if !ok {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"error":   "No history",
			"history": []model.HistoryEntry{},
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"history": entries,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.sim.Ledger())
}

func nonNil(logs []string) []string {
	if logs == nil {
		return []string{}
	}
	return logs
}
