package sim

import (
	"resilinet/internal/history"
	"resilinet/internal/model"
	"resilinet/internal/network"
)

// The engine keeps this many event log lines, newest first.
const logWindow = 50

// world is the complete mutable simulation state. Step works on a clone
// and swaps it in only after the whole pipeline succeeded, so a failing
// round can never leave half-applied state behind.
type world struct {
	net       *network.State
	hist      *history.Store
	ledger    []model.Transaction
	logs      []string
	round     int
	circuit   model.CircuitStatus
	payoff    float64
	penalty   int64
	stability model.StabilityMetrics

	// The rendered view of the committed round, rebuilt wholesale every
	// round and never mutated in place.
	graph model.GraphSnapshot
	stats model.RoundStats
}

func (w *world) clone() *world {
	c := &world{
		net:       w.net.Clone(),
		hist:      w.hist.Clone(),
		ledger:    make([]model.Transaction, len(w.ledger)),
		logs:      make([]string, len(w.logs)),
		round:     w.round,
		circuit:   w.circuit,
		payoff:    w.payoff,
		penalty:   w.penalty,
		stability: w.stability,
		graph:     w.graph,
		stats:     w.stats,
	}
	copy(c.ledger, w.ledger)
	copy(c.logs, w.logs)
	return c
}

// prependLogs pushes fresh event lines onto the log window, dropping the
// oldest lines beyond the cap.
func prependLogs(fresh, existing []string) []string {
	merged := make([]string, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)
	if len(merged) > logWindow {
		merged = merged[:logWindow]
	}
	return merged
}
